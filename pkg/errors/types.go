// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"fmt"
	"strconv"
)

// Kind identifies a client error category.
type Kind string

const (
	KindConnection         Kind = "connection"
	KindUnexpectedResponse Kind = "unexpected_response"
	KindRunNotFound        Kind = "run_not_found"
	KindAttributeNotFound  Kind = "attribute_not_found"
	KindServerAtCapacity   Kind = "server_at_capacity"
	KindAccessForbidden    Kind = "access_forbidden"
	KindAuthorization      Kind = "authorization"
	KindRunState           Kind = "run_state"
)

// Kinds returns every client error kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindConnection,
		KindUnexpectedResponse,
		KindRunNotFound,
		KindAttributeNotFound,
		KindServerAtCapacity,
		KindAccessForbidden,
		KindAuthorization,
		KindRunState,
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// ConnectionError reports that the server could not be talked to: the
// connection was refused or dropped, a timeout fired, or the reply was not
// valid HTTP.
type ConnectionError struct {
	cause TransportFailure
}

// NewConnectionError wraps a transport failure.
func NewConnectionError(cause TransportFailure) *ConnectionError {
	return &ConnectionError{cause: cause}
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.cause == nil {
		return "Connection error"
	}
	return fmt.Sprintf("Connection error (%s): %s", e.cause.FailureKind(), e.cause.Error())
}

// Cause returns the transport failure that caused this error.
func (e *ConnectionError) Cause() TransportFailure { return e.cause }

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	if e.cause == nil {
		return nil
	}
	return e.cause
}

func (e *ConnectionError) Kind() Kind          { return KindConnection }
func (e *ConnectionError) ErrorType() string   { return string(KindConnection) }
func (e *ConnectionError) IsRetryable() bool   { return true }
func (e *ConnectionError) IsUserVisible() bool { return true }
func (e *ConnectionError) UserMessage() string { return "Could not connect to the workflow server" }
func (e *ConnectionError) Suggestion() string {
	return "Check the server address and that the server is running, then try again"
}
func (e *ConnectionError) clientError() {}

// UnexpectedServerResponse reports a reply that arrived intact but does not
// match what the request expected. This does not necessarily indicate a
// problem with the server.
type UnexpectedServerResponse struct {
	statusCode int
	status     string
	body       string
	hasBody    bool
}

// NewUnexpectedServerResponse captures the status and body of resp.
func NewUnexpectedServerResponse(resp ServerResponse) *UnexpectedServerResponse {
	if resp == nil {
		return &UnexpectedServerResponse{}
	}
	body, ok := resp.Body()
	return &UnexpectedServerResponse{
		statusCode: resp.StatusCode(),
		status:     resp.StatusText(),
		body:       body,
		hasBody:    ok,
	}
}

// Error implements the error interface.
func (e *UnexpectedServerResponse) Error() string {
	msg := "Unexpected server response: " + strconv.Itoa(e.statusCode)
	if e.status != "" {
		msg += "\n" + e.status
	}
	if e.hasBody {
		msg += "\n" + e.body
	}
	return msg
}

// StatusCode returns the HTTP status the server replied with.
func (e *UnexpectedServerResponse) StatusCode() int { return e.statusCode }

// Status returns the descriptive status line.
func (e *UnexpectedServerResponse) Status() string { return e.status }

// Body returns the response body and whether there was one.
func (e *UnexpectedServerResponse) Body() (string, bool) { return e.body, e.hasBody }

func (e *UnexpectedServerResponse) Kind() Kind          { return KindUnexpectedResponse }
func (e *UnexpectedServerResponse) ErrorType() string   { return string(KindUnexpectedResponse) }
func (e *UnexpectedServerResponse) IsRetryable() bool   { return false }
func (e *UnexpectedServerResponse) IsUserVisible() bool { return true }
func (e *UnexpectedServerResponse) UserMessage() string {
	return fmt.Sprintf("The server replied with an unexpected response (HTTP %d)", e.statusCode)
}
func (e *UnexpectedServerResponse) Suggestion() string {
	return "Check that this client supports the server version"
}
func (e *UnexpectedServerResponse) clientError() {}

// RunNotFoundError reports that a run does not exist. If the run was
// expected to exist it may have been destroyed by its expiry or by another
// user.
type RunNotFoundError struct {
	uuid string
}

// NewRunNotFoundError creates a RunNotFoundError for the given run UUID.
func NewRunNotFoundError(uuid string) *RunNotFoundError {
	return &RunNotFoundError{uuid: uuid}
}

// Error implements the error interface.
func (e *RunNotFoundError) Error() string {
	return "Could not find run " + e.uuid
}

// UUID returns the identifier of the missing run.
func (e *RunNotFoundError) UUID() string { return e.uuid }

func (e *RunNotFoundError) Kind() Kind          { return KindRunNotFound }
func (e *RunNotFoundError) ErrorType() string   { return string(KindRunNotFound) }
func (e *RunNotFoundError) IsRetryable() bool   { return false }
func (e *RunNotFoundError) IsUserVisible() bool { return true }
func (e *RunNotFoundError) UserMessage() string { return e.Error() }
func (e *RunNotFoundError) Suggestion() string {
	return "The run may have expired or been deleted by another user"
}
func (e *RunNotFoundError) clientError() {}

// AttributeNotFoundError reports that a server or run attribute does not
// exist at the requested path.
type AttributeNotFoundError struct {
	path string
}

// NewAttributeNotFoundError creates an AttributeNotFoundError for path.
func NewAttributeNotFoundError(path string) *AttributeNotFoundError {
	return &AttributeNotFoundError{path: path}
}

// Error implements the error interface.
func (e *AttributeNotFoundError) Error() string {
	return "Could not find attribute at " + e.path
}

// Path returns the attribute path that was requested.
func (e *AttributeNotFoundError) Path() string { return e.path }

func (e *AttributeNotFoundError) Kind() Kind          { return KindAttributeNotFound }
func (e *AttributeNotFoundError) ErrorType() string   { return string(KindAttributeNotFound) }
func (e *AttributeNotFoundError) IsRetryable() bool   { return false }
func (e *AttributeNotFoundError) IsUserVisible() bool { return true }
func (e *AttributeNotFoundError) UserMessage() string { return e.Error() }
func (e *AttributeNotFoundError) Suggestion() string {
	return "Check the attribute path against the server's API"
}
func (e *AttributeNotFoundError) clientError() {}

// ServerAtCapacityError reports that the server is already running its
// configured number of concurrent workflows and will not accept another run.
type ServerAtCapacityError struct {
	limit int
}

// NewServerAtCapacityError creates a ServerAtCapacityError carrying the
// server's concurrency limit.
func NewServerAtCapacityError(limit int) *ServerAtCapacityError {
	return &ServerAtCapacityError{limit: limit}
}

// Error implements the error interface.
func (e *ServerAtCapacityError) Error() string {
	return fmt.Sprintf("The server is already running its configured limit of concurrent workflows (%d)", e.limit)
}

// Limit returns the server's concurrent workflow limit.
func (e *ServerAtCapacityError) Limit() int { return e.limit }

func (e *ServerAtCapacityError) Kind() Kind          { return KindServerAtCapacity }
func (e *ServerAtCapacityError) ErrorType() string   { return string(KindServerAtCapacity) }
func (e *ServerAtCapacityError) IsRetryable() bool   { return true }
func (e *ServerAtCapacityError) IsUserVisible() bool { return true }
func (e *ServerAtCapacityError) UserMessage() string { return e.Error() }
func (e *ServerAtCapacityError) Suggestion() string {
	return "Wait for running workflows to finish or delete finished runs, then try again"
}
func (e *ServerAtCapacityError) clientError() {}

// AccessForbiddenError reports that access to a run or attribute was denied.
// Either the credentials are insufficient or the server does not allow the
// operation; the two cases are not distinguished.
type AccessForbiddenError struct {
	path string
}

// NewAccessForbiddenError creates an AccessForbiddenError for path.
func NewAccessForbiddenError(path string) *AccessForbiddenError {
	return &AccessForbiddenError{path: path}
}

// Error implements the error interface.
func (e *AccessForbiddenError) Error() string {
	return "Access to " + e.path + " is forbidden. Either you do not have the required credentials or the server does not allow the requested operation"
}

// Path returns the path access was denied to.
func (e *AccessForbiddenError) Path() string { return e.path }

func (e *AccessForbiddenError) Kind() Kind          { return KindAccessForbidden }
func (e *AccessForbiddenError) ErrorType() string   { return string(KindAccessForbidden) }
func (e *AccessForbiddenError) IsRetryable() bool   { return false }
func (e *AccessForbiddenError) IsUserVisible() bool { return true }
func (e *AccessForbiddenError) UserMessage() string { return "Access to " + e.path + " is forbidden" }
func (e *AccessForbiddenError) Suggestion() string {
	return "Check your credentials and the server's access policy"
}
func (e *AccessForbiddenError) clientError() {}

// AuthorizationError reports that the server rejects this username.
type AuthorizationError struct {
	username string
}

// NewAuthorizationError creates an AuthorizationError for the rejected
// username.
func NewAuthorizationError(username string) *AuthorizationError {
	return &AuthorizationError{username: username}
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return "The username '" + e.username + "' is not authorized to connect to this server"
}

// Username returns the rejected username.
func (e *AuthorizationError) Username() string { return e.username }

func (e *AuthorizationError) Kind() Kind          { return KindAuthorization }
func (e *AuthorizationError) ErrorType() string   { return string(KindAuthorization) }
func (e *AuthorizationError) IsRetryable() bool   { return false }
func (e *AuthorizationError) IsUserVisible() bool { return true }
func (e *AuthorizationError) UserMessage() string { return e.Error() }
func (e *AuthorizationError) Suggestion() string {
	return "Check the username and password, or ask the server administrator for access"
}
func (e *AuthorizationError) clientError() {}

// RunStateError reports an operation attempted on a run in the wrong
// lifecycle state, such as starting a run that has already finished.
type RunStateError struct {
	current  string
	required string
}

// NewRunStateError creates a RunStateError from the run's current state and
// the state the operation needs.
func NewRunStateError(current, required string) *RunStateError {
	return &RunStateError{current: current, required: required}
}

// Error implements the error interface.
func (e *RunStateError) Error() string {
	return "The run is in the wrong state (" + e.current + "); it should be '" + e.required + "' to perform that action"
}

// Current returns the state the run was in.
func (e *RunStateError) Current() string { return e.current }

// Required returns the state the operation needed.
func (e *RunStateError) Required() string { return e.required }

func (e *RunStateError) Kind() Kind          { return KindRunState }
func (e *RunStateError) ErrorType() string   { return string(KindRunState) }
func (e *RunStateError) IsRetryable() bool   { return false }
func (e *RunStateError) IsUserVisible() bool { return true }
func (e *RunStateError) UserMessage() string { return e.Error() }
func (e *RunStateError) Suggestion() string {
	return "Wait for the run to reach the '" + e.required + "' state, or check the order of operations"
}
func (e *RunStateError) clientError() {}

var (
	_ ClientError = (*ConnectionError)(nil)
	_ ClientError = (*UnexpectedServerResponse)(nil)
	_ ClientError = (*RunNotFoundError)(nil)
	_ ClientError = (*AttributeNotFoundError)(nil)
	_ ClientError = (*ServerAtCapacityError)(nil)
	_ ClientError = (*AccessForbiddenError)(nil)
	_ ClientError = (*AuthorizationError)(nil)
	_ ClientError = (*RunStateError)(nil)

	_ ErrorClassifier  = (*ConnectionError)(nil)
	_ UserVisibleError = (*ConnectionError)(nil)
)
