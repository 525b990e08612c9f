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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInjectTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	defer span.End()

	req := httptest.NewRequest(http.MethodGet, "http://t2.example.org/taverna/rest", nil)
	InjectTraceContext(ctx, req)

	got := req.Header.Get("traceparent")
	if got == "" {
		t.Fatal("expected traceparent header")
	}
	if want := span.SpanContext().TraceID().String(); !strings.Contains(got, want) {
		t.Errorf("traceparent %q does not carry trace id %q", got, want)
	}
}

func TestInjectTraceContext_NoSpan(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://t2.example.org/taverna/rest", nil)
	InjectTraceContext(context.Background(), req)

	if got := req.Header.Get("traceparent"); got != "" {
		t.Errorf("expected no traceparent, got %q", got)
	}
}
