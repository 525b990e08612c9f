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
	"fmt"
	"io"
	"net/http"
	"strings"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

// DefaultBodyLimit caps how much of an error response body is kept.
const DefaultBodyLimit = 64 * 1024

// CapturedResponse is a detached copy of the parts of an HTTP response
// needed for error reporting. It implements errors.ServerResponse.
type CapturedResponse struct {
	Code    int
	Status  string
	Content string
	HasBody bool
}

var _ t2errors.ServerResponse = (*CapturedResponse)(nil)

// Capture reads up to limit bytes of resp's body and closes it. A body that
// is empty counts as absent. A limit <= 0 uses DefaultBodyLimit.
//
// A failure while reading the body is returned normalized; the status line
// is still captured.
func Capture(resp *http.Response, limit int64) (*CapturedResponse, error) {
	if resp == nil {
		return &CapturedResponse{}, nil
	}
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	captured := &CapturedResponse{
		Code:   resp.StatusCode,
		Status: resp.Status,
	}

	if resp.Body == nil {
		return captured, nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if len(data) > 0 {
		captured.Content = string(data)
		captured.HasBody = true
	}
	if err != nil {
		return captured, Normalize(err)
	}
	return captured, nil
}

// StatusCode implements errors.ServerResponse.
func (r *CapturedResponse) StatusCode() int { return r.Code }

// StatusText implements errors.ServerResponse. It renders the status line
// as `<code> "<reason>"`.
func (r *CapturedResponse) StatusText() string {
	reason := strings.TrimSpace(strings.TrimPrefix(r.Status, fmt.Sprint(r.Code)))
	if reason == "" {
		reason = http.StatusText(r.Code)
	}
	if reason == "" {
		return fmt.Sprint(r.Code)
	}
	return fmt.Sprintf("%d %q", r.Code, reason)
}

// Body implements errors.ServerResponse.
func (r *CapturedResponse) Body() (string, bool) { return r.Content, r.HasBody }
