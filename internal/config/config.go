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

// Package config loads t2client settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/t2client/internal/tracing"
	"github.com/tombee/t2client/pkg/httpclient"
)

// Config is the t2client configuration.
type Config struct {
	// Server is the workflow server address, e.g. https://t2.example.org/taverna.
	Server string `yaml:"server,omitempty"`

	// Username authenticates requests. Empty means anonymous.
	Username string `yaml:"username,omitempty"`

	// Password is read from T2_PASSWORD only and never written to disk.
	Password string `yaml:"-"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// RunLimit is the concurrent run limit to report when the server does
	// not publish one. Zero means ask the server.
	RunLimit int `yaml:"run_limit,omitempty"`

	Log   LogConfig   `yaml:"log"`
	Trace TraceConfig `yaml:"trace"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	// Exporter is none, console, otlp or otlp-http.
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP receiver host:port.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS towards the receiver.
	Insecure bool `yaml:"insecure,omitempty"`

	// SampleRate is the fraction of traces kept. Zero keeps all.
	SampleRate float64 `yaml:"sample_rate,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: httpclient.DefaultUserAgent,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Trace: TraceConfig{
			Exporter: tracing.ExporterNone,
		},
	}
}

// Load reads configuration from path, then applies environment overrides.
// An empty path reads the default config file when one exists. A missing
// explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := ConfigPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		err := cfg.loadFromFile(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, &ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Trace.Exporter == "" {
		c.Trace.Exporter = def.Trace.Exporter
	}
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadFromEnv applies T2_* environment overrides.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv("T2_SERVER"); val != "" {
		c.Server = val
	}
	if val := os.Getenv("T2_USERNAME"); val != "" {
		c.Username = val
	}
	if val := os.Getenv("T2_PASSWORD"); val != "" {
		c.Password = val
	}
	if val := os.Getenv("T2_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return &ConfigError{Key: "T2_TIMEOUT", Reason: fmt.Sprintf("invalid duration %q", val), Cause: err}
		}
		c.Timeout = d
	}
	if val := os.Getenv("T2_RUN_LIMIT"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return &ConfigError{Key: "T2_RUN_LIMIT", Reason: fmt.Sprintf("invalid integer %q", val), Cause: err}
		}
		c.RunLimit = n
	}
	if val := os.Getenv("T2_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("T2_TRACE_EXPORTER"); val != "" {
		c.Trace.Exporter = strings.ToLower(val)
	}
	if val := os.Getenv("T2_TRACE_ENDPOINT"); val != "" {
		c.Trace.Endpoint = val
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Server != "" {
		u, err := url.Parse(c.Server)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("server must be an http or https URL, got %q", c.Server))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("timeout must be positive, got %v", c.Timeout))
	}
	if c.UserAgent == "" {
		errs = append(errs, "user_agent must not be empty")
	}
	if c.RunLimit < 0 {
		errs = append(errs, fmt.Sprintf("run_limit must be >= 0, got %d", c.RunLimit))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	switch c.Trace.Exporter {
	case tracing.ExporterNone, tracing.ExporterConsole:
	case tracing.ExporterOTLP, tracing.ExporterOTLPHTTP:
		if c.Trace.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("trace.endpoint is required for exporter %q", c.Trace.Exporter))
		}
	default:
		errs = append(errs, fmt.Sprintf("trace.exporter must be one of [none, console, otlp, otlp-http], got %q", c.Trace.Exporter))
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		errs = append(errs, fmt.Sprintf("trace.sample_rate must be between 0 and 1, got %v", c.Trace.SampleRate))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// HTTPClientConfig returns the HTTP client settings.
func (c *Config) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		Timeout:   c.Timeout,
		UserAgent: c.UserAgent,
	}
}

// ProviderConfig returns the tracer provider settings.
func (c *Config) ProviderConfig(serviceName, version string) tracing.ProviderConfig {
	return tracing.ProviderConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Exporter:       c.Trace.Exporter,
		Endpoint:       c.Trace.Endpoint,
		Insecure:       c.Trace.Insecure,
		SampleRate:     c.Trace.SampleRate,
	}
}

// ConfigError reports a configuration problem.
type ConfigError struct {
	// Key is the setting or source that has the problem.
	Key string

	// Reason explains what is wrong.
	Reason string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s", e.Reason)
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements errors.UserVisibleError.
func (e *ConfigError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *ConfigError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *ConfigError) Suggestion() string {
	return "Check the config file (t2probe --config <path>) and T2_* environment variables"
}
