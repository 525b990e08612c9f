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

package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

func TestWrapTransportFailure(t *testing.T) {
	t.Run("wraps a failure deep in the chain", func(t *testing.T) {
		cause := &timeoutFailure{msg: "dial tcp: i/o timeout"}
		raw := fmt.Errorf("Get \"http://server/rest\": %w", cause)

		connErr, ok := t2errors.WrapTransportFailure(raw)
		if !ok {
			t.Fatal("WrapTransportFailure returned false for a transport failure")
		}
		if connErr.Cause() != cause {
			t.Errorf("Cause() = %v, want %v", connErr.Cause(), cause)
		}
	})

	t.Run("leaves other errors alone", func(t *testing.T) {
		connErr, ok := t2errors.WrapTransportFailure(errors.New("json: cannot unmarshal"))
		if ok || connErr != nil {
			t.Errorf("WrapTransportFailure = (%v, %v), want (nil, false)", connErr, ok)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		if _, ok := t2errors.WrapTransportFailure(nil); ok {
			t.Error("WrapTransportFailure(nil) returned true")
		}
	})

	t.Run("does not double wrap", func(t *testing.T) {
		inner := t2errors.NewConnectionError(&timeoutFailure{msg: "timeout"})
		connErr, ok := t2errors.WrapTransportFailure(fmt.Errorf("pinging server: %w", inner))
		if !ok || connErr != inner {
			t.Errorf("WrapTransportFailure should return the existing ConnectionError")
		}
	})
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("fetching run %s: %w", "a1b2-c3d4", t2errors.NewRunNotFoundError("a1b2-c3d4"))

	kind, ok := t2errors.KindOf(wrapped)
	if !ok {
		t.Fatal("KindOf returned false for a wrapped client error")
	}
	if kind != t2errors.KindRunNotFound {
		t.Errorf("KindOf() = %q, want %q", kind, t2errors.KindRunNotFound)
	}

	if _, ok := t2errors.KindOf(errors.New("plain")); ok {
		t.Error("KindOf returned true for a plain error")
	}
	if t2errors.IsClientError(nil) {
		t.Error("IsClientError(nil) = true")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"capacity", t2errors.NewServerAtCapacityError(3), true},
		{"wrapped connection", fmt.Errorf("ctx: %w", t2errors.NewConnectionError(&timeoutFailure{msg: "t"})), true},
		{"authorization", t2errors.NewAuthorizationError("bob"), false},
		{"plain", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := t2errors.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsClientError_ThroughWrapping(t *testing.T) {
	original := t2errors.NewAttributeNotFoundError("/rest/policy/runLimit")
	wrapped := fmt.Errorf("reading run limit: %w", original)

	msg := wrapped.Error()
	if !strings.Contains(msg, "reading run limit") || !strings.Contains(msg, original.Error()) {
		t.Errorf("wrapped error = %q", msg)
	}

	clientErr, ok := t2errors.AsClientError(wrapped)
	if !ok || clientErr != original {
		t.Errorf("AsClientError() = (%v, %v), want the original error", clientErr, ok)
	}

	var target *t2errors.AttributeNotFoundError
	if !errors.As(wrapped, &target) || target != original {
		t.Error("errors.As should find the original error through fmt.Errorf")
	}
}
