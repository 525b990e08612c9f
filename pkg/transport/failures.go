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

package transport

import (
	t2errors "github.com/tombee/t2client/pkg/errors"
)

// TimeoutError is a connect, read or overall request timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string       { return message(e.Err, "operation timed out") }
func (e *TimeoutError) Unwrap() error       { return e.Err }
func (e *TimeoutError) FailureKind() string { return "TimeoutError" }

// Timeout reports true so the error still satisfies net.Error-style checks.
func (e *TimeoutError) Timeout() bool { return true }

// SocketError is a failure at the socket level: refused or reset
// connections, unreachable hosts, failed name resolution.
type SocketError struct {
	Err error
}

func (e *SocketError) Error() string       { return message(e.Err, "socket error") }
func (e *SocketError) Unwrap() error       { return e.Err }
func (e *SocketError) FailureKind() string { return "SocketError" }

// EOFError means the server closed the connection before a complete
// response was read.
type EOFError struct {
	Err error
}

func (e *EOFError) Error() string       { return message(e.Err, "end of file reached") }
func (e *EOFError) Unwrap() error       { return e.Err }
func (e *EOFError) FailureKind() string { return "EOFError" }

// BadResponseError means the reply was not a valid HTTP response, for
// example a malformed status line.
type BadResponseError struct {
	Err error
}

func (e *BadResponseError) Error() string       { return message(e.Err, "malformed HTTP response") }
func (e *BadResponseError) Unwrap() error       { return e.Err }
func (e *BadResponseError) FailureKind() string { return "BadResponseError" }

// HeaderSyntaxError means the response headers could not be parsed.
type HeaderSyntaxError struct {
	Err error
}

func (e *HeaderSyntaxError) Error() string       { return message(e.Err, "malformed HTTP header") }
func (e *HeaderSyntaxError) Unwrap() error       { return e.Err }
func (e *HeaderSyntaxError) FailureKind() string { return "HeaderSyntaxError" }

// ProtocolError is any other violation of the HTTP protocol.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string       { return message(e.Err, "HTTP protocol error") }
func (e *ProtocolError) Unwrap() error       { return e.Err }
func (e *ProtocolError) FailureKind() string { return "ProtocolError" }

func message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

var (
	_ t2errors.TransportFailure = (*TimeoutError)(nil)
	_ t2errors.TransportFailure = (*SocketError)(nil)
	_ t2errors.TransportFailure = (*EOFError)(nil)
	_ t2errors.TransportFailure = (*BadResponseError)(nil)
	_ t2errors.TransportFailure = (*HeaderSyntaxError)(nil)
	_ t2errors.TransportFailure = (*ProtocolError)(nil)
)
