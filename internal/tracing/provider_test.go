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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

func restoreGlobalProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestSetup_None(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		p, err := Setup(context.Background(), ProviderConfig{Exporter: exporter})
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.NoError(t, p.Shutdown(context.Background()))
	}
}

func TestSetup_Console(t *testing.T) {
	restoreGlobalProvider(t)

	var buf bytes.Buffer
	p, err := Setup(context.Background(), ProviderConfig{
		ServiceName:    "t2probe",
		ServiceVersion: "test",
		Exporter:       ExporterConsole,
		Writer:         &buf,
	})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := StartRequest(context.Background(), nil, "GET", "/rest/runs/a1b2")
	span.RecordError(t2errors.NewRunNotFoundError("a1b2"))
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "t2.GET /rest/runs/a1b2")
	assert.Contains(t, out, "run_not_found")
	assert.Contains(t, out, "t2probe")
}

func TestSetup_OTLP(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProviderConfig
	}{
		{"grpc insecure", ProviderConfig{Exporter: ExporterOTLP, Endpoint: "127.0.0.1:4317", Insecure: true}},
		{"grpc tls", ProviderConfig{Exporter: ExporterOTLP, Endpoint: "127.0.0.1:4317", Headers: map[string]string{"x-team": "t2"}}},
		{"http insecure", ProviderConfig{Exporter: ExporterOTLPHTTP, Endpoint: "127.0.0.1:4318", Insecure: true}},
		{"http tls", ProviderConfig{Exporter: ExporterOTLPHTTP, Endpoint: "127.0.0.1:4318"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreGlobalProvider(t)

			p, err := Setup(context.Background(), tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, p)

			// Nothing was exported, so shutdown does not reach the receiver.
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = p.Shutdown(ctx)
		})
	}
}

func TestSetup_Errors(t *testing.T) {
	_, err := Setup(context.Background(), ProviderConfig{Exporter: "jaeger"})
	assert.ErrorContains(t, err, "unknown exporter type")

	_, err = Setup(context.Background(), ProviderConfig{Exporter: ExporterOTLP})
	assert.ErrorContains(t, err, "requires an endpoint")

	_, err = Setup(context.Background(), ProviderConfig{Exporter: ExporterOTLPHTTP})
	assert.ErrorContains(t, err, "requires an endpoint")
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(0).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
