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

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// SurveyPrompter implements Prompter using the survey library.
type SurveyPrompter struct {
	interactive bool
	opts        []survey.AskOpt
}

// NewSurveyPrompter creates a new survey-based prompter.
func NewSurveyPrompter(interactive bool, opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{
		interactive: interactive,
		opts:        opts,
	}
}

// PromptString collects a string input using survey.Input. An interrupt
// (Ctrl-C) is reported as context.Canceled.
func (sp *SurveyPrompter) PromptString(ctx context.Context, message, help string) (string, error) {
	if !sp.interactive {
		return "", ErrNonInteractive
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var result string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}

	opts := append([]survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
		if str, ok := ans.(string); ok {
			return ValidateAddress(str)
		}
		return nil
	})}, sp.opts...)

	if err := survey.AskOne(prompt, &result, opts...); err != nil {
		if err == terminal.InterruptErr {
			return "", context.Canceled
		}
		return "", err
	}
	return result, nil
}

// IsInteractive returns true if prompts can be displayed.
func (sp *SurveyPrompter) IsInteractive() bool {
	return sp.interactive
}
