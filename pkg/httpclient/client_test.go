package httpclient

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	t2errors "github.com/tombee/t2client/pkg/errors"
	"github.com/tombee/t2client/pkg/transport"
)

func TestNew_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.Timeout != cfg.Timeout {
		t.Errorf("expected timeout %v, got %v", cfg.Timeout, client.Timeout)
	}
	if _, ok := client.Transport.(*loggingTransport); !ok {
		t.Errorf("expected logging transport, got %T", client.Transport)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0

	client, err := New(cfg)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestNew_SingleAttempt(t *testing.T) {
	client, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestNew_SetsUserAgent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UserAgent = "t2probe/2.0"

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	var receivedUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if receivedUserAgent != "t2probe/2.0" {
		t.Errorf("expected User-Agent %q, got %q", "t2probe/2.0", receivedUserAgent)
	}
}

func TestNew_TimeoutIsTransportFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	_, err = client.Get(server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}

	// http.Client replaces the transport error with its own timeout error
	// when Client.Timeout fires, so normalize before unwrapping.
	connErr, ok := t2errors.WrapTransportFailure(transport.Normalize(err))
	if !ok {
		t.Fatalf("expected a transport failure in %v", err)
	}
	if got := connErr.Cause().FailureKind(); got != "TimeoutError" {
		t.Errorf("expected TimeoutError, got %s (%v)", got, err)
	}
}

func TestNew_RefusedIsTransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Get("http://" + addr + "/taverna/rest")
	if err == nil {
		t.Fatal("expected connection error")
	}

	var failure t2errors.TransportFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected TransportFailure in chain, got %T: %v", err, err)
	}
	if failure.FailureKind() != "SocketError" {
		t.Errorf("expected SocketError, got %s", failure.FailureKind())
	}
}
