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
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// MaxInputSize is the maximum accepted answer length.
const MaxInputSize = 2048

// ValidateAddress accepts a blank answer or an http(s) URL with a host.
func ValidateAddress(input string) error {
	if len(input) > MaxInputSize {
		return fmt.Errorf("input exceeds maximum size of %d bytes", MaxInputSize)
	}
	for i, r := range input {
		if unicode.IsControl(r) {
			return fmt.Errorf("input contains invalid control character at position %d", i)
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("address must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("address must include a host")
	}
	return nil
}
