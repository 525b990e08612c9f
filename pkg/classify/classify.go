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

// Package classify turns server replies and transport failures into the
// client error kinds defined in pkg/errors.
package classify

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/tombee/t2client/internal/log"
	t2errors "github.com/tombee/t2client/pkg/errors"
	"github.com/tombee/t2client/pkg/transport"
)

// Recorder receives every error the classifier produces.
type Recorder interface {
	RecordClientError(ctx context.Context, err t2errors.ClientError)
}

// Target describes what a request was after. The classifier only picks a
// semantic kind when the target carries the data that kind reports.
type Target struct {
	// Path is the server resource path of an attribute or endpoint.
	Path string

	// RunID identifies the run the request addressed.
	RunID string

	// Username is the identity the request authenticated as.
	Username string

	// RunLimit is the server's concurrent run limit. Zero means unknown.
	RunLimit int

	// Expect lists the acceptable status codes. Empty accepts any 2xx.
	Expect []int
}

// Expects reports whether code is an acceptable status for the request.
func (t Target) Expects(code int) bool {
	if len(t.Expect) == 0 {
		return code >= 200 && code < 300
	}
	return slices.Contains(t.Expect, code)
}

// Classifier maps failures onto client error kinds.
type Classifier struct {
	logger   *slog.Logger
	recorder Recorder
}

// New creates a classifier. A nil logger uses slog.Default(); a nil
// recorder disables reporting.
func New(logger *slog.Logger, recorder Recorder) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, recorder: recorder}
}

// Response classifies a server reply. It returns nil when the status is one
// the target expects.
func (c *Classifier) Response(ctx context.Context, resp t2errors.ServerResponse, target Target) error {
	if resp != nil && target.Expects(resp.StatusCode()) {
		return nil
	}
	return c.report(ctx, fromResponse(resp, target))
}

// Failure classifies an error returned while sending a request. Client
// errors pass through untouched, transport failures become a
// ConnectionError, and anything else is returned as is.
func (c *Classifier) Failure(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if t2errors.IsClientError(err) {
		return err
	}

	connErr, ok := t2errors.WrapTransportFailure(transport.Normalize(err))
	if !ok {
		return err
	}
	return c.report(ctx, connErr)
}

// Report logs and records an error built by the caller, such as a
// RunStateError, and returns it.
func (c *Classifier) Report(ctx context.Context, err t2errors.ClientError) error {
	if err == nil {
		return nil
	}
	return c.report(ctx, err)
}

func (c *Classifier) report(ctx context.Context, err t2errors.ClientError) error {
	c.logger.LogAttrs(ctx, slog.LevelWarn, "workflow server request failed", log.ErrorAttrs(err)...)
	if c.recorder != nil {
		c.recorder.RecordClientError(ctx, err)
	}
	return err
}

func fromResponse(resp t2errors.ServerResponse, target Target) t2errors.ClientError {
	if resp == nil {
		return t2errors.NewUnexpectedServerResponse(nil)
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		if target.Path != "" {
			return t2errors.NewAttributeNotFoundError(target.Path)
		}
		if target.RunID != "" {
			return t2errors.NewRunNotFoundError(target.RunID)
		}
	case http.StatusForbidden:
		if target.Path != "" {
			return t2errors.NewAccessForbiddenError(target.Path)
		}
	case http.StatusUnauthorized:
		if target.Username != "" {
			return t2errors.NewAuthorizationError(target.Username)
		}
	case http.StatusServiceUnavailable:
		if target.RunLimit > 0 {
			return t2errors.NewServerAtCapacityError(target.RunLimit)
		}
	}

	return t2errors.NewUnexpectedServerResponse(resp)
}
