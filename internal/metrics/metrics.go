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

// Package metrics counts requests to the workflow server and the client
// errors they produce.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/t2client/internal/tracing"
	t2errors "github.com/tombee/t2client/pkg/errors"
)

// Request outcomes besides the client error kinds.
const (
	// OutcomeOK labels requests that completed with an expected status.
	OutcomeOK = "ok"

	// OutcomeError labels requests that failed without a client error,
	// such as a cancelled context.
	OutcomeError = "error"
)

// Recorder feeds classified errors into Prometheus counters and onto the
// active span.
type Recorder struct {
	requestsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
}

// NewRecorder registers the client metrics with reg. A nil reg uses the
// default Prometheus registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	r := &Recorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "t2client_requests_total",
				Help: "Total requests sent to the workflow server by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "t2client_errors_total",
				Help: "Total client errors by kind",
			},
			[]string{"kind"},
		),
	}

	// Pre-create every kind so dashboards see zeros rather than gaps.
	for _, kind := range t2errors.Kinds() {
		r.errorsTotal.WithLabelValues(kind.String())
	}

	return r
}

// ObserveRequest counts a finished request. outcome is OutcomeOK or the
// kind of the error the request produced.
func (r *Recorder) ObserveRequest(method, outcome string) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordClientError counts err by kind and records it on the span in ctx.
func (r *Recorder) RecordClientError(ctx context.Context, err t2errors.ClientError) {
	if r == nil || err == nil {
		return
	}
	r.errorsTotal.WithLabelValues(err.Kind().String()).Inc()
	tracing.RecordClientError(trace.SpanFromContext(ctx), err)
}
