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

// Package prompt collects interactive answers from the terminal.
package prompt

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrTimeout is returned when no answer arrives before the deadline.
var ErrTimeout = errors.New("no answer before timeout")

// ErrNonInteractive is returned when prompting is impossible.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Prompter defines the interface for interactive input collection.
// Implementations include SurveyPrompter (production) and MockPrompter (testing).
type Prompter interface {
	// PromptString collects a string input from the user
	PromptString(ctx context.Context, message, help string) (string, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// AddressPrompt is shown when no workflow server address was given.
const AddressPrompt = "Taverna 2 server address (leave blank to skip)"

// AskAddress asks for a workflow server address and waits at most timeout.
// A blank answer returns "" and no error. When time runs out it returns
// ErrTimeout.
func AskAddress(ctx context.Context, p Prompter, timeout time.Duration) (string, error) {
	if p == nil || !p.IsInteractive() {
		return "", ErrNonInteractive
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		value string
		err   error
	}
	done := make(chan answer, 1)
	go func() {
		value, err := p.PromptString(ctx, AddressPrompt, "e.g. https://t2.example.org/taverna")
		done <- answer{value, err}
	}()

	select {
	case a := <-done:
		if a.err != nil {
			if errors.Is(a.err, context.DeadlineExceeded) {
				return "", ErrTimeout
			}
			return "", a.err
		}
		return strings.TrimSpace(a.value), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", ctx.Err()
	}
}
