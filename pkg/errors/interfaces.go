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

// ClientError is implemented by every error the client library reports about
// a workflow server. The set of implementations is closed: use errors.As with
// a *ClientError target for blanket handling, or with a concrete type such as
// *RunNotFoundError for fine-grained handling.
type ClientError interface {
	error

	// Kind identifies which of the client error kinds this is.
	Kind() Kind

	clientError()
}

// TransportFailure marks a failure that happened below the HTTP semantics
// layer: timeouts, socket errors, truncated streams and malformed responses.
//
// The concrete failures live with the transport code (see pkg/transport).
// Any type implementing this interface is accepted by NewConnectionError, so
// new transport failures can be added without touching this package.
type TransportFailure interface {
	error

	// FailureKind returns a short name for the failure, such as
	// "TimeoutError". It is embedded in the ConnectionError message.
	FailureKind() string
}

// ServerResponse is the part of an HTTP response needed to describe an
// unexpected reply from the server.
type ServerResponse interface {
	// StatusCode returns the numeric HTTP status.
	StatusCode() int

	// StatusText returns a descriptive string derived from the status line,
	// for example `403 "Forbidden"`.
	StatusText() string

	// Body returns the response body and whether one was present.
	Body() (string, bool)
}

// UserVisibleError defines errors that should be displayed to end users
// with user-friendly messages and actionable suggestions.
type UserVisibleError interface {
	error

	// IsUserVisible returns true if this error should be shown to users.
	IsUserVisible() bool

	// UserMessage returns a user-friendly error message.
	UserMessage() string

	// Suggestion returns actionable guidance for resolving the error.
	// Returns empty string if no suggestion is available.
	Suggestion() string
}

// ErrorClassifier defines methods for programmatic error handling.
// Errors that implement this interface can be classified by type
// for retry logic, error reporting, or specific handling paths.
type ErrorClassifier interface {
	error

	// ErrorType returns a string identifying the error category.
	ErrorType() string

	// IsRetryable returns true if the operation may succeed if repeated later.
	IsRetryable() bool
}
