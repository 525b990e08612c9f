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

package shared

import "testing"

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"T2_NON_INTERACTIVE", "CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "JENKINS_HOME"} {
		t.Setenv(v, "")
	}
}

func TestIsNonInteractive_EnvOverride(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("T2_NON_INTERACTIVE", "true")

	if !IsNonInteractive() {
		t.Error("T2_NON_INTERACTIVE=true should force non-interactive mode")
	}
}

func TestIsCIEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{"none", "", "", false},
		{"CI true", "CI", "true", true},
		{"CI 1", "CI", "1", true},
		{"CI false", "CI", "false", false},
		{"github actions", "GITHUB_ACTIONS", "true", true},
		{"jenkins path", "JENKINS_HOME", "/var/lib/jenkins", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCIEnv(t)
			if tt.key != "" {
				t.Setenv(tt.key, tt.value)
			}
			if got := isCIEnvironment(); got != tt.want {
				t.Errorf("isCIEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}
