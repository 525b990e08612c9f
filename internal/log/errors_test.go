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

package log

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	t2errors "github.com/tombee/t2client/pkg/errors"
	"github.com/tombee/t2client/pkg/transport"
)

func attrMap(attrs []slog.Attr) map[string]slog.Value {
	m := make(map[string]slog.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestErrorAttrs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{
			name: "run not found",
			err:  fmt.Errorf("status: %w", t2errors.NewRunNotFoundError("a1b2-c3d4")),
			want: map[string]string{ErrorKindKey: "run_not_found", RunIDKey: "a1b2-c3d4"},
		},
		{
			name: "forbidden",
			err:  t2errors.NewAccessForbiddenError("/rest/runs/x/security"),
			want: map[string]string{ErrorKindKey: "access_forbidden", PathKey: "/rest/runs/x/security"},
		},
		{
			name: "authorization",
			err:  t2errors.NewAuthorizationError("alice"),
			want: map[string]string{ErrorKindKey: "authorization", "username": "alice"},
		},
		{
			name: "run state",
			err:  t2errors.NewRunStateError("Finished", "Initialized"),
			want: map[string]string{ErrorKindKey: "run_state", "current_state": "Finished", "required_state": "Initialized"},
		},
		{
			name: "connection",
			err:  t2errors.NewConnectionError(&transport.SocketError{Err: errors.New("connection refused")}),
			want: map[string]string{ErrorKindKey: "connection", "transport_failure": "SocketError"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attrMap(ErrorAttrs(tt.err))
			if _, ok := got["error"]; !ok {
				t.Error("missing error attribute")
			}
			for k, v := range tt.want {
				if got[k].String() != v {
					t.Errorf("attr %s = %q, want %q", k, got[k].String(), v)
				}
			}
		})
	}
}

func TestErrorAttrs_NumericFields(t *testing.T) {
	got := attrMap(ErrorAttrs(t2errors.NewServerAtCapacityError(4)))
	if got["run_limit"].Int64() != 4 {
		t.Errorf("run_limit = %v, want 4", got["run_limit"])
	}

	resp := &transport.CapturedResponse{Code: 418, Status: "418 I'm a teapot", Content: "short and stout", HasBody: true}
	got = attrMap(ErrorAttrs(t2errors.NewUnexpectedServerResponse(resp)))
	if got[StatusKey].Int64() != 418 {
		t.Errorf("status = %v, want 418", got[StatusKey])
	}
	if got["body_bytes"].Int64() != int64(len("short and stout")) {
		t.Errorf("body_bytes = %v", got["body_bytes"])
	}
}

func TestErrorAttrs_PlainAndNil(t *testing.T) {
	if attrs := ErrorAttrs(nil); attrs != nil {
		t.Errorf("ErrorAttrs(nil) = %v, want nil", attrs)
	}

	got := attrMap(ErrorAttrs(errors.New("plain")))
	if _, ok := got[ErrorKindKey]; ok {
		t.Error("plain error should not carry an error_kind")
	}
	if len(got) != 1 {
		t.Errorf("expected only the error attribute, got %v", got)
	}
}
