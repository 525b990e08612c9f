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
	"log/slog"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

// ErrorAttrs returns structured attributes describing err. When the chain
// holds a client error its kind and identifying data are included, so log
// queries can filter on run_id, path and so on without parsing messages.
func ErrorAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}

	attrs := []slog.Attr{Error(err)}

	clientErr, ok := t2errors.AsClientError(err)
	if !ok {
		return attrs
	}
	attrs = append(attrs, slog.String(ErrorKindKey, clientErr.Kind().String()))

	switch e := clientErr.(type) {
	case *t2errors.ConnectionError:
		if cause := e.Cause(); cause != nil {
			attrs = append(attrs, slog.String("transport_failure", cause.FailureKind()))
		}
	case *t2errors.UnexpectedServerResponse:
		attrs = append(attrs, slog.Int(StatusKey, e.StatusCode()))
		if body, ok := e.Body(); ok {
			attrs = append(attrs, slog.Int("body_bytes", len(body)))
		}
	case *t2errors.RunNotFoundError:
		attrs = append(attrs, slog.String(RunIDKey, e.UUID()))
	case *t2errors.AttributeNotFoundError:
		attrs = append(attrs, slog.String(PathKey, e.Path()))
	case *t2errors.ServerAtCapacityError:
		attrs = append(attrs, slog.Int("run_limit", e.Limit()))
	case *t2errors.AccessForbiddenError:
		attrs = append(attrs, slog.String(PathKey, e.Path()))
	case *t2errors.AuthorizationError:
		attrs = append(attrs, slog.String("username", e.Username()))
	case *t2errors.RunStateError:
		attrs = append(attrs,
			slog.String("current_state", e.Current()),
			slog.String("required_state", e.Required()),
		)
	}

	return attrs
}
