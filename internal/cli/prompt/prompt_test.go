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
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAskAddress(t *testing.T) {
	tests := []struct {
		name     string
		prompter Prompter
		timeout  time.Duration
		want     string
		wantErr  error
	}{
		{
			name:     "answer trimmed",
			prompter: NewMockPrompter(true, "  https://t2.example.org/taverna \n"),
			timeout:  time.Second,
			want:     "https://t2.example.org/taverna",
		},
		{
			name:     "blank answer skips",
			prompter: NewMockPrompter(true, ""),
			timeout:  time.Second,
			want:     "",
		},
		{
			name:     "timeout",
			prompter: NewMockPrompter(true, "late").WithDelay(time.Second),
			timeout:  20 * time.Millisecond,
			wantErr:  ErrTimeout,
		},
		{
			name:     "non-interactive",
			prompter: NewMockPrompter(false),
			timeout:  time.Second,
			wantErr:  ErrNonInteractive,
		},
		{
			name:    "nil prompter",
			timeout: time.Second,
			wantErr: ErrNonInteractive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AskAddress(context.Background(), tt.prompter, tt.timeout)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAskAddress_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AskAddress(ctx, NewMockPrompter(true, "x").WithDelay(time.Second), time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"", ""},
		{"   ", ""},
		{"https://t2.example.org/taverna", ""},
		{"http://localhost:8080/taverna", ""},
		{"t2.example.org", "must start with http:// or https://"},
		{"ftp://t2.example.org", "must start with http:// or https://"},
		{"http://", "must include a host"},
		{"http://t2\x00.org", "control character"},
		{"https://" + strings.Repeat("a", MaxInputSize), "maximum size"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateAddress(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSurveyPrompter_NonInteractive(t *testing.T) {
	sp := NewSurveyPrompter(false)
	if sp.IsInteractive() {
		t.Error("IsInteractive() should be false")
	}

	_, err := sp.PromptString(context.Background(), AddressPrompt, "")
	if !errors.Is(err, ErrNonInteractive) {
		t.Errorf("expected ErrNonInteractive, got %v", err)
	}
}

func TestSurveyPrompter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSurveyPrompter(true).PromptString(ctx, AddressPrompt, "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMockPrompter_Calls(t *testing.T) {
	mp := NewMockPrompter(true, "a")
	_, _ = mp.PromptString(context.Background(), "q", "")
	_, _ = mp.PromptString(context.Background(), "q", "")
	if mp.Calls() != 2 {
		t.Errorf("expected 2 calls, got %d", mp.Calls())
	}
}
