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
Package client provides a client for the Taverna 2 workflow server REST API.

Every failure is returned as a classified client error from pkg/errors, so
callers can branch on what went wrong instead of parsing status codes:

	c, err := client.New("https://t2.example.org/taverna",
	    client.WithCredentials("alice", "secret"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	status, err := c.RunStatus(ctx, uuid)
	var notFound *t2errors.RunNotFoundError
	if errors.As(err, &notFound) {
	    // the run expired or was deleted
	}

# Classification

A response only becomes a specific kind when the client knows the datum that
kind reports. A 404 on a run path is a RunNotFoundError, a 404 on a server
attribute is an AttributeNotFoundError, a 401 is an AuthorizationError only
when a username was supplied, and a 503 on run creation is a
ServerAtCapacityError only when the run limit is known. Anything else is an
UnexpectedServerResponse carrying the status and body.

Transport failures (refused connections, resets, timeouts, truncated
replies) become a ConnectionError wrapping the underlying cause.

# Observability

Requests are traced with OpenTelemetry and, with WithRecorder, counted in
Prometheus. Each request is sent once; there is no retry.
*/
package client
