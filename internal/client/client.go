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

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/t2client/internal/log"
	"github.com/tombee/t2client/internal/metrics"
	"github.com/tombee/t2client/internal/tracing"
	"github.com/tombee/t2client/pkg/classify"
	t2errors "github.com/tombee/t2client/pkg/errors"
	"github.com/tombee/t2client/pkg/httpclient"
	"github.com/tombee/t2client/pkg/transport"
)

// REST layout of a Taverna 2 server, relative to its base address.
const (
	restRoot      = "/rest"
	runsPath      = restRoot + "/runs"
	runLimitPath  = restRoot + "/policy/runLimit"
	workflowMedia = "application/vnd.taverna.t2flow+xml"
)

// Run states reported by the server.
const (
	StateInitialized = "Initialized"
	StateOperating   = "Operating"
	StateFinished    = "Finished"
	StateStopped     = "Stopped"
)

// Recorder receives request outcomes and classified errors.
// *metrics.Recorder implements it.
type Recorder interface {
	classify.Recorder
	ObserveRequest(method, outcome string)
}

// Client talks to a single Taverna 2 server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	logger     *slog.Logger
	recorder   Recorder
	tracer     trace.Tracer
	classifier *classify.Classifier

	limitMu  sync.Mutex
	runLimit int
}

// New creates a client for the server at address, which must be an http or
// https URL such as https://t2.example.org/taverna.
func New(address string, opts ...Option) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", address, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server address %q: scheme must be http or https", address)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q: missing host", address)
	}

	c := &Client{}
	if u.User != nil {
		c.username = u.User.Username()
		c.password, _ = u.User.Password()
		u.User = nil
	}
	u.RawQuery = ""
	u.Fragment = ""
	c.baseURL = strings.TrimSuffix(u.String(), "/")

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		cfg := httpclient.DefaultConfig()
		cfg.Logger = c.logger
		httpClient, err := httpclient.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create http client: %w", err)
		}
		c.httpClient = httpClient
	}

	var rec classify.Recorder = spanRecorder{}
	if c.recorder != nil {
		rec = c.recorder
	}
	c.classifier = classify.New(c.logger, rec)

	return c, nil
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithCredentials sets the username and password sent with every request.
func WithCredentials(username, password string) Option {
	return func(c *Client) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithRunLimit records the server's concurrent run limit so a refused run
// creation can be reported as ServerAtCapacityError without asking the
// server for it.
func WithRunLimit(limit int) Option {
	return func(c *Client) error {
		if limit < 0 {
			return fmt.Errorf("run limit must be >= 0, got %d", limit)
		}
		c.runLimit = limit
		return nil
	}
}

// WithLogger sets the logger for request and error records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) error {
		c.recorder = recorder
		return nil
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) error {
		c.tracer = tracer
		return nil
	}
}

// BaseURL returns the server address without credentials.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Username returns the configured username, if any.
func (c *Client) Username() string {
	return c.username
}

// Ping checks that the server answers on its REST root.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, restRoot, nil, "", c.target(classify.Target{}))
	return err
}

// GetAttribute reads a server attribute, for example "/rest/policy/runLimit".
func (c *Client) GetAttribute(ctx context.Context, path string) ([]byte, error) {
	path = "/" + strings.TrimPrefix(path, "/")
	res, err := c.do(ctx, http.MethodGet, path, nil, "", c.target(classify.Target{Path: path}))
	if err != nil {
		return nil, err
	}
	return res.body, nil
}

// RunAttribute reads an attribute of a run, for example "status" or
// "output".
func (c *Client) RunAttribute(ctx context.Context, uuid, name string) ([]byte, error) {
	path := runPath(uuid) + "/" + strings.TrimPrefix(name, "/")
	res, err := c.do(ctx, http.MethodGet, path, nil, "", c.target(classify.Target{RunID: uuid, Path: path}))
	if err != nil {
		return nil, err
	}
	return res.body, nil
}

// RunStatus returns the state of a run.
func (c *Client) RunStatus(ctx context.Context, uuid string) (string, error) {
	res, err := c.do(ctx, http.MethodGet, runPath(uuid)+"/status", nil, "", c.target(classify.Target{RunID: uuid}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.body)), nil
}

// RequireState returns a RunStateError unless the run is in the required
// state.
func (c *Client) RequireState(ctx context.Context, uuid, required string) error {
	current, err := c.RunStatus(ctx, uuid)
	if err != nil {
		return err
	}
	if current != required {
		return c.classifier.Report(ctx, t2errors.NewRunStateError(current, required))
	}
	return nil
}

// RunLimit returns the server's concurrent run limit. The value is cached
// after the first successful read.
func (c *Client) RunLimit(ctx context.Context) (int, error) {
	if limit := c.cachedRunLimit(); limit > 0 {
		return limit, nil
	}

	data, err := c.GetAttribute(ctx, runLimitPath)
	if err != nil {
		return 0, err
	}
	return c.storeRunLimit(data)
}

// knownRunLimit is RunLimit without reporting: a server that hides its
// policy still accepts runs, so a failed read is only logged at debug and
// yields 0.
func (c *Client) knownRunLimit(ctx context.Context) int {
	if limit := c.cachedRunLimit(); limit > 0 {
		return limit
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+runLimitPath, nil)
	if err != nil {
		return 0
	}
	c.prepare(ctx, req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "run limit unavailable", log.Error(err))
		return 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.DebugContext(ctx, "run limit unavailable", slog.Int(log.StatusKey, resp.StatusCode))
		return 0
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0
	}
	limit, err := c.storeRunLimit(data)
	if err != nil {
		c.logger.DebugContext(ctx, "run limit unavailable", log.Error(err))
		return 0
	}
	return limit
}

func (c *Client) cachedRunLimit() int {
	c.limitMu.Lock()
	defer c.limitMu.Unlock()
	return c.runLimit
}

func (c *Client) storeRunLimit(data []byte) (int, error) {
	text := strings.TrimSpace(string(data))
	limit, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid run limit %q: %w", text, err)
	}

	c.limitMu.Lock()
	c.runLimit = limit
	c.limitMu.Unlock()
	return limit, nil
}

// CreateRun uploads a workflow document and returns the identifier of the
// new run. The run is not started.
func (c *Client) CreateRun(ctx context.Context, workflow []byte) (string, error) {
	limit := c.knownRunLimit(ctx)

	res, err := c.do(ctx, http.MethodPost, runsPath, workflow, workflowMedia,
		c.target(classify.Target{RunLimit: limit, Expect: []int{http.StatusCreated}}))
	if err != nil {
		return "", err
	}

	location := res.header.Get("Location")
	uuid := location[strings.LastIndex(location, "/")+1:]
	if uuid == "" {
		return "", fmt.Errorf("server did not report the new run location")
	}
	return uuid, nil
}

// DeleteRun destroys a run.
func (c *Client) DeleteRun(ctx context.Context, uuid string) error {
	_, err := c.do(ctx, http.MethodDelete, runPath(uuid), nil, "", c.target(classify.Target{RunID: uuid}))
	return err
}

type result struct {
	body   []byte
	header http.Header
}

func (c *Client) target(t classify.Target) classify.Target {
	t.Username = c.username
	return t
}

// do sends one request and classifies whatever goes wrong.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, target classify.Target) (*result, error) {
	ctx, id := tracing.EnsureContext(ctx)
	ctx, span := tracing.StartRequest(ctx, c.tracer, method, path)
	defer span.End()

	logger := log.WithCorrelationID(c.logger, id.String())
	res, err := c.send(ctx, logger, span, method, path, body, contentType, target)

	outcome := metrics.OutcomeOK
	if kind, ok := t2errors.KindOf(err); ok {
		outcome = kind.String()
	} else if err != nil {
		outcome = metrics.OutcomeError
		span.RecordError(err)
	}
	if c.recorder != nil {
		c.recorder.ObserveRequest(method, outcome)
	}
	logger.DebugContext(ctx, "workflow server request",
		slog.String("method", method),
		slog.String(log.PathKey, path),
		slog.String("outcome", outcome),
	)

	return res, err
}

func (c *Client) send(ctx context.Context, logger *slog.Logger, span *tracing.RequestSpan, method, path string, body []byte, contentType string, target classify.Target) (*result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.prepare(ctx, req, contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifier.Failure(ctx, err)
	}
	span.SetStatusCode(resp.StatusCode)

	if !target.Expects(resp.StatusCode) {
		captured, err := transport.Capture(resp, transport.DefaultBodyLimit)
		if err != nil {
			return nil, c.classifier.Failure(ctx, err)
		}
		return nil, c.classifier.Response(ctx, captured, target)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classifier.Failure(ctx, err)
	}
	log.Trace(logger, "response body",
		slog.String(log.PathKey, path),
		slog.String("body", string(data)),
	)
	return &result{body: data, header: resp.Header}, nil
}

// prepare sets the headers every request carries, whatever HTTP client
// sends it.
func (c *Client) prepare(ctx context.Context, req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	tracing.InjectIntoRequest(ctx, req)
	tracing.InjectTraceContext(ctx, req)
}

func runPath(uuid string) string {
	return runsPath + "/" + url.PathEscape(uuid)
}

// spanRecorder puts classified errors on the request span when no metrics
// recorder is configured.
type spanRecorder struct{}

func (spanRecorder) RecordClientError(ctx context.Context, err t2errors.ClientError) {
	tracing.RecordClientError(trace.SpanFromContext(ctx), err)
}
