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
	"encoding/json"
	"errors"
	"io"

	"github.com/tombee/t2client/internal/log"
	t2errors "github.com/tombee/t2client/pkg/errors"
)

// ProbeResult is the JSON document t2probe prints with --json.
// Attributes carry the identifying data of a failure, flattened into the
// top level on output.
type ProbeResult struct {
	OK         bool
	Server     string
	Kind       string
	Message    string
	Suggestion string
	Retryable  bool
	Checks     []CheckResult
	Attributes map[string]any
}

// CheckResult records one probe step.
type CheckResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// MarshalJSON flattens Attributes next to the fixed fields.
func (r ProbeResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attributes)+7)
	for k, v := range r.Attributes {
		out[k] = v
	}
	out["ok"] = r.OK
	if r.Server != "" {
		out["server"] = r.Server
	}
	if r.Kind != "" {
		out["kind"] = r.Kind
		out["retryable"] = r.Retryable
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	if r.Suggestion != "" {
		out["suggestion"] = r.Suggestion
	}
	if len(r.Checks) > 0 {
		out["checks"] = r.Checks
	}
	return json.Marshal(out)
}

// FailureResult describes err in a ProbeResult.
func FailureResult(server string, checks []CheckResult, err error) ProbeResult {
	res := ProbeResult{
		Server:  server,
		Checks:  checks,
		Message: err.Error(),
		Kind:    "error",
	}

	if kind, ok := t2errors.KindOf(err); ok {
		res.Kind = kind.String()
		res.Retryable = t2errors.IsRetryable(err)
	}
	var userErr t2errors.UserVisibleError
	if errors.As(err, &userErr) && userErr.IsUserVisible() {
		res.Suggestion = userErr.Suggestion()
	}

	for _, attr := range log.ErrorAttrs(err) {
		switch attr.Key {
		case "error", log.ErrorKindKey:
			continue
		}
		if res.Attributes == nil {
			res.Attributes = make(map[string]any)
		}
		res.Attributes[attr.Key] = attr.Value.Any()
	}

	return res
}

// EmitJSON writes v as indented JSON.
func EmitJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
