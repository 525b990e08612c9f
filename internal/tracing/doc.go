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

/*
Package tracing provides OpenTelemetry tracing for requests to a workflow
server.

Each request gets a client span named "t2.<METHOD> <path>" and carries two
sets of headers: X-Correlation-ID for log correlation and W3C traceparent
for distributed tracing. When a request fails with a classified client
error the span status is set to Error and the error's identifying data is
attached as t2.error.* attributes.

# Provider Setup

	provider, err := tracing.Setup(ctx, tracing.ProviderConfig{
	    ServiceName: "t2probe",
	    Exporter:    tracing.ExporterOTLP,
	    Endpoint:    "localhost:4317",
	    Insecure:    true,
	})
	if err != nil {
	    return err
	}
	defer provider.Shutdown(context.Background())

Exporters are none (the default, spans are dropped), console (pretty JSON
to a writer), otlp (gRPC) and otlp-http.

# Correlation IDs

	ctx, id := tracing.EnsureContext(ctx)
	logger = log.WithCorrelationID(logger, id.String())
*/
package tracing
