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

package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"syscall"

	t2errors "github.com/tombee/t2client/pkg/errors"
)

// Normalize converts a raw failure from net/http into one of the transport
// failures in this package. Errors that already are transport failures, and
// errors that have nothing to do with the transport (including context
// cancellation by the caller), are returned unchanged.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var failure t2errors.TransportFailure
	if errors.As(err, &failure) {
		return err
	}

	// The caller gave up; nothing went wrong on the wire.
	if errors.Is(err, context.Canceled) {
		return err
	}

	switch {
	case isTimeout(err):
		return &TimeoutError{Err: err}
	case isHeaderSyntax(err):
		return &HeaderSyntaxError{Err: err}
	case isBadResponse(err):
		return &BadResponseError{Err: err}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &EOFError{Err: err}
	case isProtocol(err):
		return &ProtocolError{Err: err}
	case isSocket(err):
		return &SocketError{Err: err}
	}

	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isHeaderSyntax(err error) bool {
	var protoErr textproto.ProtocolError
	if errors.As(err, &protoErr) && strings.Contains(string(protoErr), "header") {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "malformed MIME header") ||
		strings.Contains(msg, "invalid header field")
}

func isBadResponse(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "malformed HTTP response") ||
		strings.Contains(msg, "malformed HTTP status code") ||
		strings.Contains(msg, "malformed HTTP version")
}

func isProtocol(err error) bool {
	var httpProtoErr *http.ProtocolError
	if errors.As(err, &httpProtoErr) {
		return true
	}

	var protoErr textproto.ProtocolError
	if errors.As(err, &protoErr) {
		return true
	}

	return strings.Contains(err.Error(), "transport connection broken")
}

func isSocket(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EINVAL) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
