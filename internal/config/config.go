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

// Package config loads and validates courier CLI configuration.
//
// Configuration merges three layers, lowest precedence first: built-in
// defaults, an optional YAML file, and COURIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/courier/internal/log"
	"github.com/tombee/courier/internal/tracing"
	couriererrors "github.com/tombee/courier/pkg/errors"
	"github.com/tombee/courier/pkg/httpclient"
	"github.com/tombee/courier/sdk"
)

// ErrInvalidConfig indicates configuration validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration for the courier CLI.
type Config struct {
	// Client configures the HTTP transport shared by all invocations.
	Client ClientConfig `yaml:"client"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Telemetry configures OpenTelemetry tracing and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Retry configures the default retry schedule for invocations.
	Retry RetryConfig `yaml:"retry"`

	// Auth maps profile names to credential definitions. A profile is
	// selected per invocation with --auth profile:NAME.
	Auth map[string]AuthProfile `yaml:"auth"`

	// Descriptors lists glob patterns for operation descriptor files.
	Descriptors DescriptorConfig `yaml:"descriptors"`
}

// ClientConfig controls the HTTP client used for dispatch.
type ClientConfig struct {
	// BaseURL is the default base URL when a descriptor set does not
	// declare one and --base-url is not given.
	BaseURL string `yaml:"base_url"`

	// Timeout is the total per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`

	// MaxIdleConnsPerHost caps pooled connections per host.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// TelemetryConfig controls tracing export.
type TelemetryConfig struct {
	// Enabled activates the OpenTelemetry provider.
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in traces.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is reported alongside the service name.
	ServiceVersion string `yaml:"service_version"`

	// Exporter selects the span destination: "none", "console", or
	// "otlp-http".
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP receiver host for exporter "otlp-http".
	Endpoint string `yaml:"endpoint"`

	// SampleRate is the fraction of traces recorded (0.0 - 1.0).
	SampleRate float64 `yaml:"sample_rate"`
}

// RetryConfig controls the default retry schedule.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	BackoffFactor  float64       `yaml:"backoff_factor"`
	Jitter         bool          `yaml:"jitter"`

	// Policy is an optional retry predicate expression evaluated per
	// failure. Empty means the standard exponential policy.
	Policy string `yaml:"policy"`
}

// DescriptorConfig controls descriptor discovery.
type DescriptorConfig struct {
	// Paths are glob patterns (doublestar syntax) resolved relative to
	// the working directory.
	Paths []string `yaml:"paths"`
}

// Default returns the default configuration.
func Default() *Config {
	hc := httpclient.DefaultConfig()
	retry := sdk.DefaultRetryConfig()

	return &Config{
		Client: ClientConfig{
			Timeout:             hc.Timeout,
			UserAgent:           "courier/1.0",
			MaxIdleConnsPerHost: hc.MaxIdleConnsPerHost,
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			AddSource: false,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceName:    "courier",
			ServiceVersion: "unknown",
			Exporter:       "none",
			SampleRate:     1.0,
		},
		Retry: RetryConfig{
			MaxRetries:     retry.MaxRetries,
			InitialBackoff: retry.InitialBackoff,
			MaxBackoff:     retry.MaxBackoff,
			BackoffFactor:  retry.BackoffFactor,
			Jitter:         retry.Jitter,
		},
		Auth: map[string]AuthProfile{},
	}
}

// Load loads configuration from environment variables and optionally from
// a YAML file. Environment variables take precedence over file-based
// configuration. If configPath is empty, only environment variables are
// used.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// Load from file if path provided
	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &couriererrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	// Apply defaults to any zero values (handles minimal configs)
	cfg.applyDefaults()

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, &couriererrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	// Expand home directory if present
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

// applyDefaults fills zero values with defaults. Booleans are left alone
// so an explicit false in the file survives.
func (c *Config) applyDefaults() {
	defaults := Default()

	// Client defaults
	if c.Client.Timeout == 0 {
		c.Client.Timeout = defaults.Client.Timeout
	}
	if c.Client.UserAgent == "" {
		c.Client.UserAgent = defaults.Client.UserAgent
	}
	if c.Client.MaxIdleConnsPerHost == 0 {
		c.Client.MaxIdleConnsPerHost = defaults.Client.MaxIdleConnsPerHost
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	// Telemetry defaults
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaults.Telemetry.ServiceName
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = defaults.Telemetry.ServiceVersion
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = defaults.Telemetry.Exporter
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = defaults.Telemetry.SampleRate
	}

	// Retry defaults
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = defaults.Retry.InitialBackoff
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = defaults.Retry.MaxBackoff
	}
	if c.Retry.BackoffFactor == 0 {
		c.Retry.BackoffFactor = defaults.Retry.BackoffFactor
	}

	if c.Auth == nil {
		c.Auth = map[string]AuthProfile{}
	}
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	// Client configuration
	if val := os.Getenv("COURIER_BASE_URL"); val != "" {
		c.Client.BaseURL = val
	}
	if val := os.Getenv("COURIER_TIMEOUT"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Client.Timeout = duration
		}
	}
	if val := os.Getenv("COURIER_USER_AGENT"); val != "" {
		c.Client.UserAgent = val
	}

	// Log configuration
	if val := os.Getenv("COURIER_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("COURIER_LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("COURIER_LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}

	// Telemetry configuration
	if val := os.Getenv("COURIER_TELEMETRY"); val != "" {
		c.Telemetry.Enabled = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("COURIER_TELEMETRY_EXPORTER"); val != "" {
		c.Telemetry.Exporter = strings.ToLower(val)
	}
	if val := os.Getenv("COURIER_TELEMETRY_ENDPOINT"); val != "" {
		c.Telemetry.Endpoint = val
	}
	if val := os.Getenv("COURIER_SERVICE_NAME"); val != "" {
		c.Telemetry.ServiceName = val
	}

	// Retry configuration
	if val := os.Getenv("COURIER_RETRY_MAX"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil {
			c.Retry.MaxRetries = retries
		}
	}
	if val := os.Getenv("COURIER_RETRY_INITIAL_BACKOFF"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Retry.InitialBackoff = duration
		}
	}
	if val := os.Getenv("COURIER_RETRY_MAX_BACKOFF"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Retry.MaxBackoff = duration
		}
	}
	if val := os.Getenv("COURIER_RETRY_POLICY"); val != "" {
		c.Retry.Policy = val
	}

	// Descriptor configuration; list entries separated like PATH
	if val := os.Getenv("COURIER_DESCRIPTORS"); val != "" {
		c.Descriptors.Paths = filepath.SplitList(val)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	// Validate client configuration
	if c.Client.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("client.timeout must be positive, got %v", c.Client.Timeout))
	}
	if c.Client.UserAgent == "" {
		errs = append(errs, "client.user_agent must not be empty")
	}
	if c.Client.MaxIdleConnsPerHost < 0 {
		errs = append(errs, fmt.Sprintf("client.max_idle_conns_per_host must be non-negative, got %d", c.Client.MaxIdleConnsPerHost))
	}
	if c.Client.BaseURL != "" && !strings.Contains(c.Client.BaseURL, "://") {
		errs = append(errs, fmt.Sprintf("client.base_url must be absolute, got %q", c.Client.BaseURL))
	}

	// Validate log configuration
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [debug, info, warn, warning, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	// Validate telemetry configuration
	validExporters := map[string]bool{"none": true, "console": true, "otlp-http": true}
	if !validExporters[c.Telemetry.Exporter] {
		errs = append(errs, fmt.Sprintf("telemetry.exporter must be one of [none, console, otlp-http], got %q", c.Telemetry.Exporter))
	}
	if c.Telemetry.Enabled && c.Telemetry.Exporter == "otlp-http" && c.Telemetry.Endpoint == "" {
		errs = append(errs, "telemetry.endpoint is required for the otlp-http exporter")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, fmt.Sprintf("telemetry.sample_rate must be between 0.0 and 1.0, got %v", c.Telemetry.SampleRate))
	}

	// Validate retry configuration
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("retry.max_retries must be non-negative, got %d", c.Retry.MaxRetries))
	}
	if c.Retry.InitialBackoff <= 0 {
		errs = append(errs, fmt.Sprintf("retry.initial_backoff must be positive, got %v", c.Retry.InitialBackoff))
	}
	if c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		errs = append(errs, fmt.Sprintf("retry.max_backoff must be >= retry.initial_backoff, got %v < %v", c.Retry.MaxBackoff, c.Retry.InitialBackoff))
	}
	if c.Retry.BackoffFactor < 1 {
		errs = append(errs, fmt.Sprintf("retry.backoff_factor must be >= 1, got %v", c.Retry.BackoffFactor))
	}

	// Validate auth profiles
	for name, profile := range c.Auth {
		if err := profile.validate(); err != nil {
			errs = append(errs, fmt.Sprintf("auth.%s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}

	return nil
}

// HTTPClientConfig maps the client section onto the transport config.
func (c *Config) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		Timeout:             c.Client.Timeout,
		UserAgent:           c.Client.UserAgent,
		MaxIdleConnsPerHost: c.Client.MaxIdleConnsPerHost,
	}
}

// LoggerConfig maps the log section onto the logging config. Verbose
// lowers the level to debug, quiet raises it to error.
func (c *Config) LoggerConfig(verbose, quiet bool) *log.Config {
	level := c.Log.Level
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "error"
	}
	return &log.Config{
		Level:     level,
		Format:    log.Format(c.Log.Format),
		Output:    os.Stderr,
		AddSource: c.Log.AddSource,
	}
}

// TracingConfig maps the telemetry section onto the tracing config.
func (c *Config) TracingConfig() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = c.Telemetry.Enabled
	cfg.ServiceName = c.Telemetry.ServiceName
	cfg.ServiceVersion = c.Telemetry.ServiceVersion
	cfg.Sampling = tracing.SamplingConfig{
		Enabled:            c.Telemetry.SampleRate < 1.0,
		Rate:               c.Telemetry.SampleRate,
		AlwaysSampleErrors: true,
	}
	switch c.Telemetry.Exporter {
	case "console":
		cfg.Exporters = []tracing.ExporterConfig{{Type: "console"}}
	case "otlp-http":
		cfg.Exporters = []tracing.ExporterConfig{{Type: "otlp-http", Endpoint: c.Telemetry.Endpoint}}
	}
	return cfg
}

// RetryPolicy maps the retry section onto the dispatch retry config.
func (c *Config) RetryPolicy() sdk.RetryConfig {
	cfg := sdk.DefaultRetryConfig()
	cfg.MaxRetries = c.Retry.MaxRetries
	cfg.InitialBackoff = c.Retry.InitialBackoff
	cfg.MaxBackoff = c.Retry.MaxBackoff
	cfg.BackoffFactor = c.Retry.BackoffFactor
	cfg.Jitter = c.Retry.Jitter
	return cfg
}
