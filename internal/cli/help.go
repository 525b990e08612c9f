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

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/t2client/internal/commands/shared"
	t2errors "github.com/tombee/t2client/pkg/errors"
)

// CommandMetadata describes a command for JSON help output.
type CommandMetadata struct {
	Name        string         `json:"name"`
	Short       string         `json:"short"`
	Long        string         `json:"long,omitempty"`
	Usage       string         `json:"usage"`
	Flags       []FlagMetadata `json:"flags,omitempty"`
	Examples    string         `json:"examples,omitempty"`
	Subcommands []string       `json:"subcommands,omitempty"`
}

// FlagMetadata describes a flag.
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

// HelpResponse is the JSON document printed by help --json. ExitCodes maps
// each client error kind to the exit code t2probe uses for it.
type HelpResponse struct {
	Commands    []CommandMetadata `json:"commands,omitempty"`
	Command     *CommandMetadata  `json:"command,omitempty"`
	GlobalFlags []FlagMetadata    `json:"global_flags,omitempty"`
	ExitCodes   map[string]int    `json:"exit_codes"`
}

// NewHelpCommand creates the help command
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Help provides detailed information about commands and their usage.

Use --json to get machine-readable output, including the exit code of
every error kind.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if shared.GetJSON() {
					return outputHelpJSON(cmd, rootCmd, nil)
				}
				return rootCmd.Help()
			}

			targetCmd, _, err := rootCmd.Find(args)
			if err != nil || targetCmd == rootCmd {
				return shared.NewUsageError(fmt.Sprintf("command %q not found", args[0]), err)
			}

			if shared.GetJSON() {
				return outputHelpJSON(cmd, rootCmd, targetCmd)
			}
			return targetCmd.Help()
		},
	}
}

func outputHelpJSON(cmd, rootCmd, targetCmd *cobra.Command) error {
	resp := HelpResponse{
		GlobalFlags: extractFlags(rootCmd.PersistentFlags()),
		ExitCodes:   exitCodes(),
	}

	if targetCmd != nil {
		metadata := extractCommandMetadata(targetCmd)
		resp.Command = &metadata
	} else {
		for _, c := range rootCmd.Commands() {
			if c.Hidden {
				continue
			}
			resp.Commands = append(resp.Commands, extractCommandMetadata(c))
		}
	}

	return shared.EmitJSON(cmd.OutOrStdout(), resp)
}

func extractCommandMetadata(cmd *cobra.Command) CommandMetadata {
	metadata := CommandMetadata{
		Name:     cmd.Name(),
		Short:    cmd.Short,
		Long:     cmd.Long,
		Usage:    cmd.UseLine(),
		Examples: cmd.Example,
		Flags:    extractFlags(cmd.LocalNonPersistentFlags()),
	}

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			metadata.Subcommands = append(metadata.Subcommands, sub.Name())
		}
	}

	return metadata
}

func extractFlags(fs *pflag.FlagSet) []FlagMetadata {
	var flags []FlagMetadata
	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		flags = append(flags, FlagMetadata{
			Name:      flag.Name,
			Shorthand: flag.Shorthand,
			Usage:     flag.Usage,
			Default:   flag.DefValue,
		})
	})
	return flags
}

func exitCodes() map[string]int {
	codes := map[string]int{
		"success": shared.ExitSuccess,
		"failure": shared.ExitFailure,
		"usage":   shared.ExitUsage,
	}
	for _, kind := range t2errors.Kinds() {
		codes[kind.String()] = shared.ExitCodeForKind(kind)
	}
	return codes
}
