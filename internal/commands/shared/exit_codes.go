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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

// Exit codes for t2probe. Client error kinds get their own codes so scripts
// can react without parsing output.
const (
	ExitSuccess            = 0
	ExitFailure            = 1
	ExitUsage              = 2
	ExitConnection         = 10
	ExitUnexpectedResponse = 11
	ExitRunNotFound        = 12
	ExitAttributeNotFound  = 13
	ExitServerAtCapacity   = 14
	ExitAccessForbidden    = 15
	ExitAuthorization      = 16
	ExitRunState           = 17
)

// ExitCodeForKind returns the exit code reserved for a client error kind.
func ExitCodeForKind(kind t2errors.Kind) int {
	switch kind {
	case t2errors.KindConnection:
		return ExitConnection
	case t2errors.KindUnexpectedResponse:
		return ExitUnexpectedResponse
	case t2errors.KindRunNotFound:
		return ExitRunNotFound
	case t2errors.KindAttributeNotFound:
		return ExitAttributeNotFound
	case t2errors.KindServerAtCapacity:
		return ExitServerAtCapacity
	case t2errors.KindAccessForbidden:
		return ExitAccessForbidden
	case t2errors.KindAuthorization:
		return ExitAuthorization
	case t2errors.KindRunState:
		return ExitRunState
	default:
		return ExitFailure
	}
}

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error

	// Reported means the failure was already written (e.g. as JSON) and
	// only the exit code is left to apply.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewClientExitError wraps err with the exit code of its client error kind.
func NewClientExitError(err error) *ExitError {
	code := ExitFailure
	if kind, ok := t2errors.KindOf(err); ok {
		code = ExitCodeForKind(kind)
	}
	return &ExitError{Code: code, Cause: err}
}

// NewUsageError creates an error for bad invocation or configuration.
func NewUsageError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitUsage,
		Message: msg,
		Cause:   cause,
	}
}

// ReportError writes err to w with any suggestion and returns the exit code.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	code := ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Reported {
			return code
		}
	}

	fmt.Fprintln(w, RenderError(err.Error()))
	printUserVisibleSuggestion(w, err)

	return code
}

// HandleExitError reports err on stderr and exits with its code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(ReportError(os.Stderr, err))
}

// printUserVisibleSuggestion walks the chain for a UserVisibleError and
// prints its suggestion.
func printUserVisibleSuggestion(w io.Writer, err error) {
	var userErr t2errors.UserVisibleError
	if !errors.As(err, &userErr) || !userErr.IsUserVisible() {
		return
	}
	if suggestion := userErr.Suggestion(); suggestion != "" {
		fmt.Fprintf(w, "\n%s %s\n", RenderLabel("Suggestion:"), suggestion)
	}
}
