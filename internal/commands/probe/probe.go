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

// Package probe implements the t2probe probe command, which checks that a
// Taverna 2 workflow server is reachable and optionally inspects a run.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tombee/t2client/internal/cli/prompt"
	"github.com/tombee/t2client/internal/client"
	"github.com/tombee/t2client/internal/commands/shared"
	"github.com/tombee/t2client/internal/config"
	"github.com/tombee/t2client/internal/log"
	"github.com/tombee/t2client/internal/metrics"
	"github.com/tombee/t2client/internal/tracing"
	t2errors "github.com/tombee/t2client/pkg/errors"
	"github.com/tombee/t2client/pkg/httpclient"
)

// DefaultPromptTimeout bounds how long the address prompt waits.
const DefaultPromptTimeout = 30 * time.Second

const serviceName = "t2probe"

// Options holds the probe command flags.
type Options struct {
	Address       string
	RunID         string
	State         string
	Attribute     string
	Trace         string
	PromptTimeout time.Duration
}

// env holds what the command touches outside its arguments.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter prompt.Prompter
	registry prometheus.Registerer
}

// NewCommand creates the probe command.
func NewCommand() *cobra.Command {
	opts := &Options{PromptTimeout: DefaultPromptTimeout}

	cmd := &cobra.Command{
		Use:   "probe [address]",
		Short: "Check that a workflow server is reachable",
		Long: `Probe contacts a Taverna 2 workflow server and reports whether it answered.

The address comes from the argument, the config file, or T2_SERVER. When none
is set and stdin is a terminal you are asked for one; a blank answer skips
the probe.

Failures exit with a code specific to their kind, so scripts can tell a
missing run (12) from a server at capacity (14) or a refused connection (10).`,
		Example: `  t2probe probe https://t2.example.org/taverna
  t2probe probe --run 8fd2a2b1-7c5e-4d57-9e6a-2a0f3b4c5d6e --state Operating
  t2probe probe --attribute /rest/policy/runLimit --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Address = args[0]
			}
			e := env{
				stdout:   cmd.OutOrStdout(),
				stderr:   cmd.ErrOrStderr(),
				prompter: prompt.NewSurveyPrompter(!shared.IsNonInteractive()),
				registry: prometheus.NewRegistry(),
			}
			return run(cmd.Context(), opts, e)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "Check that the run with this UUID exists")
	cmd.Flags().StringVar(&opts.State, "state", "", "Require the run to be in this state (needs --run)")
	cmd.Flags().StringVar(&opts.Attribute, "attribute", "", "Fetch a server attribute, e.g. /rest/policy/runLimit")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Span exporter: none, console, otlp or otlp-http (overrides config)")

	return cmd
}

func run(ctx context.Context, opts *Options, e env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.State != "" && opts.RunID == "" {
		return shared.NewUsageError("--state requires --run", nil)
	}

	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewUsageError("failed to load configuration", err)
	}

	address, err := resolveAddress(ctx, opts, cfg, e)
	if err != nil {
		return err
	}
	if address == "" {
		fmt.Fprintln(e.stderr, shared.RenderWarn("No server address given, skipping probe"))
		return nil
	}

	level := cfg.Log.Level
	if shared.GetVerbose() {
		level = "debug"
	}
	logger := log.WithComponent(log.New(&log.Config{
		Level:  level,
		Format: log.Format(cfg.Log.Format),
		Output: e.stderr,
	}), serviceName)

	provCfg := cfg.ProviderConfig(serviceName, version())
	if opts.Trace != "" {
		provCfg.Exporter = opts.Trace
	}
	provCfg.Writer = e.stderr
	provider, err := tracing.Setup(ctx, provCfg)
	if err != nil {
		return shared.NewUsageError("failed to set up tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush spans", log.Error(err))
		}
	}()

	httpCfg := cfg.HTTPClientConfig()
	httpCfg.Logger = logger
	httpClient, err := httpclient.New(httpCfg)
	if err != nil {
		return shared.NewUsageError("invalid HTTP client settings", err)
	}

	clientOpts := []client.Option{
		client.WithHTTPClient(httpClient),
		client.WithLogger(logger),
		client.WithRecorder(metrics.NewRecorder(e.registry)),
	}
	if cfg.Username != "" {
		logger.Debug("using credentials",
			"username", cfg.Username,
			"password", log.SanitizeSecret(cfg.Password),
		)
		clientOpts = append(clientOpts, client.WithCredentials(cfg.Username, cfg.Password))
	}
	if cfg.RunLimit > 0 {
		clientOpts = append(clientOpts, client.WithRunLimit(cfg.RunLimit))
	}
	c, err := client.New(address, clientOpts...)
	if err != nil {
		return shared.NewUsageError("invalid server address", err)
	}

	ctx, _ = tracing.EnsureContext(ctx)
	checks, failure := probe(ctx, c, opts)
	return report(e.stdout, c.BaseURL(), checks, failure)
}

// resolveAddress picks the server address from the flag, then config, then
// the prompt. An empty result with no error means the user declined.
func resolveAddress(ctx context.Context, opts *Options, cfg *config.Config, e env) (string, error) {
	if opts.Address != "" {
		return opts.Address, nil
	}
	if cfg.Server != "" {
		return cfg.Server, nil
	}

	address, err := prompt.AskAddress(ctx, e.prompter, opts.PromptTimeout)
	switch {
	case errors.Is(err, prompt.ErrNonInteractive):
		return "", shared.NewUsageError("no server address: pass one as an argument or set T2_SERVER", nil)
	case errors.Is(err, prompt.ErrTimeout):
		fmt.Fprintln(e.stderr, shared.RenderWarn("Timed out waiting for a server address"))
		return "", nil
	case err != nil:
		return "", err
	}
	return address, nil
}

// probe runs the checks in order and stops at the first failure.
func probe(ctx context.Context, c *client.Client, opts *Options) ([]shared.CheckResult, *failedCheck) {
	var checks []shared.CheckResult

	step := func(name string, fn func() (string, error)) *failedCheck {
		detail, err := fn()
		if err != nil {
			checks = append(checks, shared.CheckResult{Name: name, OK: false})
			return &failedCheck{name: name, err: err}
		}
		checks = append(checks, shared.CheckResult{Name: name, OK: true, Detail: detail})
		return nil
	}

	if f := step("ping", func() (string, error) {
		return "", c.Ping(ctx)
	}); f != nil {
		return checks, f
	}

	if opts.Attribute != "" {
		if f := step("attribute", func() (string, error) {
			data, err := c.GetAttribute(ctx, opts.Attribute)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%d bytes)", opts.Attribute, len(data)), nil
		}); f != nil {
			return checks, f
		}
	}

	if opts.RunID != "" {
		if opts.State != "" {
			if f := step("run_state", func() (string, error) {
				return opts.RunID + " is " + opts.State, c.RequireState(ctx, opts.RunID, opts.State)
			}); f != nil {
				return checks, f
			}
		} else {
			if f := step("run_status", func() (string, error) {
				status, err := c.RunStatus(ctx, opts.RunID)
				return opts.RunID + " is " + status, err
			}); f != nil {
				return checks, f
			}
		}
	}

	return checks, nil
}

type failedCheck struct {
	name string
	err  error
}

func report(w io.Writer, server string, checks []shared.CheckResult, failure *failedCheck) error {
	if shared.GetJSON() {
		if failure == nil {
			return shared.EmitJSON(w, shared.ProbeResult{OK: true, Server: server, Checks: checks})
		}
		if err := shared.EmitJSON(w, shared.FailureResult(server, checks, failure.err)); err != nil {
			return err
		}
		exitErr := shared.NewClientExitError(failure.err)
		exitErr.Reported = true
		return exitErr
	}

	fmt.Fprintln(w, shared.Header.Render(server))
	for _, check := range checks {
		switch {
		case check.OK && check.Detail != "":
			fmt.Fprintln(w, shared.RenderOK(check.Name+" "+shared.RenderLabel(check.Detail)))
		case check.OK:
			fmt.Fprintln(w, shared.RenderOK(check.Name))
		default:
			line := check.Name
			if kind, ok := kindOf(failure.err); ok {
				line += " " + shared.RenderKind(kind)
			}
			fmt.Fprintln(w, shared.RenderError(line))
		}
	}

	if failure != nil {
		return shared.NewClientExitError(failure.err)
	}
	return nil
}

func version() string {
	v, _, _ := shared.GetVersion()
	return v
}

func kindOf(err error) (string, bool) {
	kind, ok := t2errors.KindOf(err)
	return kind.String(), ok
}
