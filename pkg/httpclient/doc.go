// Package httpclient builds the HTTP client used to talk to a Taverna 2
// workflow server.
//
// The client composes a logging transport over a TLS-configured
// http.Transport:
//   - Request logging with sanitized URLs (userinfo and sensitive parameters redacted)
//   - User-Agent header injection
//   - Correlation ID propagation
//   - Low-level failures normalized into pkg/transport failure types
//
// # Usage
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get("https://t2.example.org/taverna/rest/runs")
//	if err != nil {
//	    return classifier.Failure(ctx, err) // ConnectionError for transport failures
//	}
//
// http.Client replaces transport errors with its own error when
// Client.Timeout fires, so callers should classify through
// transport.Normalize (pkg/classify does) rather than unwrap directly.
//
// Each request is attempted once. Deciding whether to repeat a request is
// left to the caller, which can consult errors.IsRetryable.
//
// # Observability
//
// Requests emit structured logs via log/slog:
//   - Debug level: requests answered below 400
//   - Warn level: requests answered with 4xx/5xx, and transport failures
//   - Fields: method, url (sanitized), status, duration_ms, error, transport_failure
package httpclient
