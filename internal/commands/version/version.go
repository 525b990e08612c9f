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

package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tombee/t2client/internal/commands/shared"
	"github.com/tombee/t2client/pkg/httpclient"
)

// VersionInfo contains version metadata
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	UserAgent string `json:"user_agent"`
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, build date and the default User-Agent sent to workflow servers.`,
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	v, c, b := shared.GetVersion()

	info := VersionInfo{
		Version:   v,
		Commit:    c,
		BuildDate: b,
		GoVersion: runtime.Version(),
		UserAgent: httpclient.DefaultUserAgent,
	}

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		return shared.EmitJSON(out, info)
	}

	fmt.Fprintf(out, "t2probe version %s\n", info.Version)
	fmt.Fprintf(out, "  %s     %s\n", shared.RenderLabel("commit:"), info.Commit)
	fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("build date:"), info.BuildDate)
	fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("go version:"), info.GoVersion)
	fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("user agent:"), info.UserAgent)

	return nil
}
