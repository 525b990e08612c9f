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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

func recorded(code int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.WriteHeader(code)
	if body != "" {
		_, _ = rec.WriteString(body)
	}
	return rec.Result()
}

func TestCapture(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		captured, err := Capture(recorded(http.StatusForbidden, "Forbidden: insufficient role"), 0)
		require.NoError(t, err)

		assert.Equal(t, 403, captured.StatusCode())
		assert.Equal(t, `403 "Forbidden"`, captured.StatusText())
		body, ok := captured.Body()
		assert.True(t, ok)
		assert.Equal(t, "Forbidden: insufficient role", body)
	})

	t.Run("empty body counts as absent", func(t *testing.T) {
		captured, err := Capture(recorded(http.StatusConflict, ""), 0)
		require.NoError(t, err)

		_, ok := captured.Body()
		assert.False(t, ok)
	})

	t.Run("body is truncated at limit", func(t *testing.T) {
		captured, err := Capture(recorded(http.StatusInternalServerError, strings.Repeat("x", 100)), 10)
		require.NoError(t, err)

		body, _ := captured.Body()
		assert.Len(t, body, 10)
	})

	t.Run("nil response", func(t *testing.T) {
		captured, err := Capture(nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, captured.StatusCode())
	})

	t.Run("broken body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusBadGateway,
			Status:     "502 Bad Gateway",
			Body:       io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{io.ErrUnexpectedEOF})),
		}

		captured, err := Capture(resp, 0)
		var eof *EOFError
		assert.ErrorAs(t, err, &eof)
		body, ok := captured.Body()
		assert.True(t, ok)
		assert.Equal(t, "partial", body)
	})
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestCapturedResponse_StatusText(t *testing.T) {
	tests := []struct {
		name string
		resp CapturedResponse
		want string
	}{
		{"status line", CapturedResponse{Code: 503, Status: "503 Service Unavailable"}, `503 "Service Unavailable"`},
		{"custom reason", CapturedResponse{Code: 404, Status: "404 No Such Run"}, `404 "No Such Run"`},
		{"missing status", CapturedResponse{Code: 401}, `401 "Unauthorized"`},
		{"unknown code", CapturedResponse{Code: 599}, "599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.StatusText())
		})
	}
}

func TestUnexpectedServerResponseFromCapture(t *testing.T) {
	captured, err := Capture(recorded(http.StatusForbidden, "Forbidden: insufficient role"), 0)
	require.NoError(t, err)

	unexpected := t2errors.NewUnexpectedServerResponse(captured)
	assert.Contains(t, unexpected.Error(), "403")
	assert.Contains(t, unexpected.Error(), "Forbidden: insufficient role")
}
