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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartRequest_RecordsClientError(t *testing.T) {
	sr, tp := newRecorder()
	tracer := tp.Tracer("test")

	ctx := ToContext(context.Background(), CorrelationID("550e8400-e29b-41d4-a716-446655440000"))
	_, span := StartRequest(ctx, tracer, "GET", "/rest/runs/a1b2-c3d4")
	span.SetStatusCode(404)
	span.RecordError(t2errors.NewRunNotFoundError("a1b2-c3d4"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got := spans[0]

	assert.Equal(t, "t2.GET /rest/runs/a1b2-c3d4", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Contains(t, got.Status().Description, "a1b2-c3d4")

	kind, ok := attrValue(got.Attributes(), "t2.error.kind")
	require.True(t, ok)
	assert.Equal(t, "run_not_found", kind.AsString())

	runID, ok := attrValue(got.Attributes(), "t2.error.run_id")
	require.True(t, ok)
	assert.Equal(t, "a1b2-c3d4", runID.AsString())

	status, ok := attrValue(got.Attributes(), "http.response.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(404), status.AsInt64())

	corr, ok := attrValue(got.Attributes(), "t2.correlation_id")
	require.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", corr.AsString())

	require.Len(t, got.Events(), 1)
	assert.Equal(t, "exception", got.Events()[0].Name)
}

func TestErrorAttributes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		key  string
		want attribute.Value
	}{
		{"capacity", t2errors.NewServerAtCapacityError(8), "t2.error.run_limit", attribute.IntValue(8)},
		{"forbidden", t2errors.NewAccessForbiddenError("/rest/runs"), "t2.error.path", attribute.StringValue("/rest/runs")},
		{"authorization", t2errors.NewAuthorizationError("bob"), "t2.error.username", attribute.StringValue("bob")},
		{"run state", t2errors.NewRunStateError("Operating", "Initialized"), "t2.error.required_state", attribute.StringValue("Initialized")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := attrValue(ErrorAttributes(tt.err), tt.key)
			require.True(t, ok, "missing %s", tt.key)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Nil(t, ErrorAttributes(errors.New("plain")))
}

func TestRecordClientError_Nil(t *testing.T) {
	sr, tp := newRecorder()
	_, span := tp.Tracer("test").Start(context.Background(), "noop")

	RecordClientError(span, nil)
	RecordClientError(nil, errors.New("ignored"))
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)

	var nilSpan *RequestSpan
	nilSpan.RecordError(errors.New("x"))
	nilSpan.SetStatusCode(200)
	nilSpan.End()
}
