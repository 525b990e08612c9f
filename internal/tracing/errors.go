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

package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

// InstrumentationName is the name client tracers are registered under.
const InstrumentationName = "github.com/tombee/t2client"

// Tracer returns the client tracer from the global provider. It is a no-op
// until the application installs a TracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// RequestSpan wraps the span covering one request to the workflow server.
type RequestSpan struct {
	span trace.Span
}

// StartRequest starts a client span for a request.
func StartRequest(ctx context.Context, tracer trace.Tracer, method, path string) (context.Context, *RequestSpan) {
	if tracer == nil {
		tracer = Tracer()
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("t2.%s %s", method, path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("t2.path", path),
		),
	)
	if id := FromContextOrEmpty(ctx); id != "" {
		span.SetAttributes(attribute.String("t2.correlation_id", id.String()))
	}

	return ctx, &RequestSpan{span: span}
}

// SetStatusCode records the HTTP status of the response.
func (s *RequestSpan) SetStatusCode(code int) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.Int("http.response.status_code", code))
}

// RecordError marks the span failed.
func (s *RequestSpan) RecordError(err error) {
	if s == nil {
		return
	}
	RecordClientError(s.span, err)
}

// End completes the span.
func (s *RequestSpan) End() {
	if s == nil || s.span == nil {
		return
	}
	s.span.End()
}

// RecordClientError records err on span and sets the span status to Error.
// Client errors also contribute t2.error.* attributes carrying the kind and
// the identifying data of the error.
func RecordClientError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(ErrorAttributes(err)...)
}

// ErrorAttributes returns the span attributes describing err.
func ErrorAttributes(err error) []attribute.KeyValue {
	clientErr, ok := t2errors.AsClientError(err)
	if !ok {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.String("t2.error.kind", clientErr.Kind().String()),
		attribute.Bool("t2.error.retryable", t2errors.IsRetryable(clientErr)),
	}

	switch e := clientErr.(type) {
	case *t2errors.ConnectionError:
		if cause := e.Cause(); cause != nil {
			attrs = append(attrs, attribute.String("t2.error.transport_failure", cause.FailureKind()))
		}
	case *t2errors.UnexpectedServerResponse:
		attrs = append(attrs, attribute.Int("t2.error.status_code", e.StatusCode()))
	case *t2errors.RunNotFoundError:
		attrs = append(attrs, attribute.String("t2.error.run_id", e.UUID()))
	case *t2errors.AttributeNotFoundError:
		attrs = append(attrs, attribute.String("t2.error.path", e.Path()))
	case *t2errors.ServerAtCapacityError:
		attrs = append(attrs, attribute.Int("t2.error.run_limit", e.Limit()))
	case *t2errors.AccessForbiddenError:
		attrs = append(attrs, attribute.String("t2.error.path", e.Path()))
	case *t2errors.AuthorizationError:
		attrs = append(attrs, attribute.String("t2.error.username", e.Username()))
	case *t2errors.RunStateError:
		attrs = append(attrs,
			attribute.String("t2.error.current_state", e.Current()),
			attribute.String("t2.error.required_state", e.Required()),
		)
	}

	return attrs
}
