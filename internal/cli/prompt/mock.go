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

package prompt

import (
	"context"
	"sync"
	"time"
)

// MockPrompter implements Prompter with scripted responses for testing.
type MockPrompter struct {
	mu          sync.Mutex
	responses   []string
	interactive bool
	delay       time.Duration
	calls       int
}

// NewMockPrompter creates a new mock prompter with pre-scripted responses.
func NewMockPrompter(interactive bool, responses ...string) *MockPrompter {
	return &MockPrompter{
		responses:   responses,
		interactive: interactive,
	}
}

// WithDelay makes every answer wait d, or until ctx ends.
func (mp *MockPrompter) WithDelay(d time.Duration) *MockPrompter {
	mp.delay = d
	return mp
}

// PromptString returns the next scripted response, or "" when none remain.
func (mp *MockPrompter) PromptString(ctx context.Context, message, help string) (string, error) {
	mp.mu.Lock()
	mp.calls++
	var resp string
	if len(mp.responses) > 0 {
		resp = mp.responses[0]
		mp.responses = mp.responses[1:]
	}
	delay := mp.delay
	mp.mu.Unlock()

	if !mp.interactive {
		return "", ErrNonInteractive
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return resp, nil
}

// IsInteractive returns the configured interactivity.
func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// Calls returns how many prompts were shown.
func (mp *MockPrompter) Calls() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.calls
}
