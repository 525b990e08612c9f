package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tombee/t2client/internal/log"
	"github.com/tombee/t2client/internal/tracing"
	"github.com/tombee/t2client/pkg/transport"
)

// loggingTransport wraps an http.RoundTripper to add:
// - Request logging with sanitized URLs
// - User-Agent header injection
// - Correlation ID propagation
// - Normalization of low-level failures into transport failure types
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
	logger    *slog.Logger
}

// newLoggingTransport creates a new logging transport that wraps the base transport.
func newLoggingTransport(base http.RoundTripper, userAgent string, logger *slog.Logger) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &loggingTransport{
		base:      base,
		userAgent: userAgent,
		logger:    logger,
	}
}

// RoundTrip implements http.RoundTripper.
// Errors returned by the base transport are normalized with transport.Normalize
// so callers can recognize them as transport failures. Records are written at
// debug level; failures are reported at warn once they are classified.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	tracing.InjectIntoRequest(req.Context(), req)
	tracing.InjectTraceContext(req.Context(), req)

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	logURL := sanitizeURL(req.URL)

	if err != nil {
		err = transport.Normalize(err)

		attrs := []any{
			"method", req.Method,
			"url", logURL,
			log.DurationKey, duration,
			"error", err.Error(),
		}
		if failure, ok := err.(interface{ FailureKind() string }); ok {
			attrs = append(attrs, "transport_failure", failure.FailureKind())
		}
		t.logger.DebugContext(req.Context(), "http request failed", attrs...)
		return nil, err
	}

	t.logger.DebugContext(req.Context(), "http request",
		"method", req.Method,
		"url", logURL,
		log.StatusKey, resp.StatusCode,
		log.DurationKey, duration,
	)

	return resp, nil
}
