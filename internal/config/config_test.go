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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	couriererrors "github.com/tombee/courier/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Client defaults
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("expected client timeout 30s, got %v", cfg.Client.Timeout)
	}
	if cfg.Client.UserAgent != "courier/1.0" {
		t.Errorf("expected user agent 'courier/1.0', got %q", cfg.Client.UserAgent)
	}
	if cfg.Client.MaxIdleConnsPerHost != 10 {
		t.Errorf("expected max idle conns 10, got %d", cfg.Client.MaxIdleConnsPerHost)
	}

	// Log defaults
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected log format 'text', got %q", cfg.Log.Format)
	}
	if cfg.Log.AddSource {
		t.Errorf("expected log add_source false, got true")
	}

	// Telemetry defaults
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry disabled by default")
	}
	if cfg.Telemetry.ServiceName != "courier" {
		t.Errorf("expected service name 'courier', got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Telemetry.Exporter != "none" {
		t.Errorf("expected exporter 'none', got %q", cfg.Telemetry.Exporter)
	}

	// Retry defaults
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("expected max retries 3, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialBackoff != 1*time.Second {
		t.Errorf("expected initial backoff 1s, got %v", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.MaxBackoff != 30*time.Second {
		t.Errorf("expected max backoff 30s, got %v", cfg.Retry.MaxBackoff)
	}
	if !cfg.Retry.Jitter {
		t.Error("expected jitter enabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errText string
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid client timeout",
			modify: func(c *Config) {
				c.Client.Timeout = 0
			},
			wantErr: true,
			errText: "client.timeout must be positive",
		},
		{
			name: "empty user agent",
			modify: func(c *Config) {
				c.Client.UserAgent = ""
			},
			wantErr: true,
			errText: "client.user_agent must not be empty",
		},
		{
			name: "relative base url",
			modify: func(c *Config) {
				c.Client.BaseURL = "api.example.com/v2"
			},
			wantErr: true,
			errText: "client.base_url must be absolute",
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "invalid"
			},
			wantErr: true,
			errText: "log.level must be one of [debug, info, warn, warning, error]",
		},
		{
			name: "invalid log format",
			modify: func(c *Config) {
				c.Log.Format = "xml"
			},
			wantErr: true,
			errText: "log.format must be one of [json, text]",
		},
		{
			name: "invalid exporter",
			modify: func(c *Config) {
				c.Telemetry.Exporter = "grpc"
			},
			wantErr: true,
			errText: "telemetry.exporter must be one of [none, console, otlp-http]",
		},
		{
			name: "otlp exporter without endpoint",
			modify: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Exporter = "otlp-http"
			},
			wantErr: true,
			errText: "telemetry.endpoint is required",
		},
		{
			name: "sample rate out of range",
			modify: func(c *Config) {
				c.Telemetry.SampleRate = 1.5
			},
			wantErr: true,
			errText: "telemetry.sample_rate must be between 0.0 and 1.0",
		},
		{
			name: "negative max retries",
			modify: func(c *Config) {
				c.Retry.MaxRetries = -1
			},
			wantErr: true,
			errText: "retry.max_retries must be non-negative",
		},
		{
			name: "max backoff below initial backoff",
			modify: func(c *Config) {
				c.Retry.InitialBackoff = 10 * time.Second
				c.Retry.MaxBackoff = 2 * time.Second
			},
			wantErr: true,
			errText: "retry.max_backoff must be >= retry.initial_backoff",
		},
		{
			name: "backoff factor below one",
			modify: func(c *Config) {
				c.Retry.BackoffFactor = 0.5
			},
			wantErr: true,
			errText: "retry.backoff_factor must be >= 1",
		},
		{
			name: "bearer profile without token",
			modify: func(c *Config) {
				c.Auth = map[string]AuthProfile{
					"github": {Type: "bearer"},
				}
			},
			wantErr: true,
			errText: "auth.github: bearer profile requires token",
		},
		{
			name: "unknown profile type",
			modify: func(c *Config) {
				c.Auth = map[string]AuthProfile{
					"weird": {Type: "kerberos"},
				}
			},
			wantErr: true,
			errText: `unknown profile type "kerberos"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.errText)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Client.Timeout = 0
	cfg.Log.Level = "loud"
	cfg.Retry.BackoffFactor = 0

	// BackoffFactor 0 normally gets filled by applyDefaults; calling
	// Validate directly exercises the raw check.
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	for _, want := range []string{"client.timeout", "log.level", "retry.backoff_factor"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q:\n%s", want, err.Error())
		}
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Client.UserAgent != "courier/1.0" {
		t.Errorf("expected default user agent, got %q", cfg.Client.UserAgent)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `client:
  base_url: https://api.example.com/v2
  timeout: 5s
log:
  level: debug
retry:
  max_retries: 7
auth:
  github:
    type: bearer
    token: ghp_abc123
descriptors:
  paths:
    - specs/**/*.yaml
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.BaseURL != "https://api.example.com/v2" {
		t.Errorf("base_url = %q, want %q", cfg.Client.BaseURL, "https://api.example.com/v2")
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Client.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Retry.MaxRetries != 7 {
		t.Errorf("max_retries = %d, want 7", cfg.Retry.MaxRetries)
	}
	if got := cfg.Auth["github"].Token; got != "ghp_abc123" {
		t.Errorf("auth token = %q, want %q", got, "ghp_abc123")
	}
	if len(cfg.Descriptors.Paths) != 1 || cfg.Descriptors.Paths[0] != "specs/**/*.yaml" {
		t.Errorf("descriptor paths = %v, want [specs/**/*.yaml]", cfg.Descriptors.Paths)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Client.UserAgent != "courier/1.0" {
		t.Errorf("user agent = %q, want default", cfg.Client.UserAgent)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default", cfg.Log.Format)
	}
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}

	var cfgErr *couriererrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %T, want *ConfigError", err)
	}
	if cfgErr.Key != "config_file" {
		t.Errorf("ConfigError.Key = %q, want %q", cfgErr.Key, "config_file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("client: [unclosed"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}

	var cfgErr *couriererrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %T, want *ConfigError", err)
	}
	if cfgErr.Key != "config_file" {
		t.Errorf("ConfigError.Key = %q, want %q", cfgErr.Key, "config_file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: shouting\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error")
	}

	var cfgErr *couriererrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %T, want *ConfigError", err)
	}
	if cfgErr.Key != "validation" {
		t.Errorf("ConfigError.Key = %q, want %q", cfgErr.Key, "validation")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("Load() error should wrap ErrInvalidConfig")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `client:
  timeout: 5s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("COURIER_TIMEOUT", "90s")
	t.Setenv("COURIER_LOG_LEVEL", "ERROR")
	t.Setenv("COURIER_BASE_URL", "https://staging.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.Timeout != 90*time.Second {
		t.Errorf("timeout = %v, want 90s from environment", cfg.Client.Timeout)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want %q (lowered from env)", cfg.Log.Level, "error")
	}
	if cfg.Client.BaseURL != "https://staging.example.com" {
		t.Errorf("base_url = %q, want env value", cfg.Client.BaseURL)
	}
}

func TestLoad_EnvDescriptorList(t *testing.T) {
	paths := strings.Join([]string{"a/**/*.yaml", "b/pets.json"}, string(os.PathListSeparator))
	t.Setenv("COURIER_DESCRIPTORS", paths)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Descriptors.Paths) != 2 {
		t.Fatalf("descriptor paths = %v, want 2 entries", cfg.Descriptors.Paths)
	}
	if cfg.Descriptors.Paths[0] != "a/**/*.yaml" || cfg.Descriptors.Paths[1] != "b/pets.json" {
		t.Errorf("descriptor paths = %v", cfg.Descriptors.Paths)
	}
}

func TestLoad_EnvRetryOverrides(t *testing.T) {
	t.Setenv("COURIER_RETRY_MAX", "9")
	t.Setenv("COURIER_RETRY_INITIAL_BACKOFF", "250ms")
	t.Setenv("COURIER_RETRY_POLICY", "attempts < 2 && status >= 500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Retry.MaxRetries != 9 {
		t.Errorf("max_retries = %d, want 9", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialBackoff != 250*time.Millisecond {
		t.Errorf("initial_backoff = %v, want 250ms", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.Policy != "attempts < 2 && status >= 500" {
		t.Errorf("policy = %q", cfg.Retry.Policy)
	}
}

func TestHTTPClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Client.Timeout = 12 * time.Second
	cfg.Client.UserAgent = "courier-test/9.9"

	hc := cfg.HTTPClientConfig()
	if hc.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", hc.Timeout)
	}
	if hc.UserAgent != "courier-test/9.9" {
		t.Errorf("UserAgent = %q", hc.UserAgent)
	}
	if err := hc.Validate(); err != nil {
		t.Errorf("mapped transport config invalid: %v", err)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"

	lc := cfg.LoggerConfig(false, false)
	if lc.Level != "warn" {
		t.Errorf("Level = %q, want %q", lc.Level, "warn")
	}
	if lc.Output == nil {
		t.Error("Output must not be nil")
	}

	if got := cfg.LoggerConfig(true, false).Level; got != "debug" {
		t.Errorf("verbose Level = %q, want %q", got, "debug")
	}
	if got := cfg.LoggerConfig(false, true).Level; got != "error" {
		t.Errorf("quiet Level = %q, want %q", got, "error")
	}
	// Quiet wins over verbose.
	if got := cfg.LoggerConfig(true, true).Level; got != "error" {
		t.Errorf("verbose+quiet Level = %q, want %q", got, "error")
	}
}

func TestTracingConfig(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp-http"
	cfg.Telemetry.Endpoint = "collector:4318"
	cfg.Telemetry.SampleRate = 0.25
	cfg.Telemetry.ServiceVersion = "1.2.3"

	tc := cfg.TracingConfig()
	if !tc.Enabled {
		t.Error("expected tracing enabled")
	}
	if tc.ServiceVersion != "1.2.3" {
		t.Errorf("ServiceVersion = %q", tc.ServiceVersion)
	}
	if !tc.Sampling.Enabled || tc.Sampling.Rate != 0.25 {
		t.Errorf("Sampling = %+v, want enabled at 0.25", tc.Sampling)
	}
	if len(tc.Exporters) != 1 || tc.Exporters[0].Type != "otlp-http" || tc.Exporters[0].Endpoint != "collector:4318" {
		t.Errorf("Exporters = %+v", tc.Exporters)
	}
}

func TestRetryPolicy(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxRetries = 5
	cfg.Retry.InitialBackoff = 200 * time.Millisecond
	cfg.Retry.Jitter = false

	rc := cfg.RetryPolicy()
	if rc.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", rc.MaxRetries)
	}
	if rc.InitialBackoff != 200*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 200ms", rc.InitialBackoff)
	}
	if rc.Jitter {
		t.Error("Jitter should be disabled")
	}
	// Fields the config does not expose keep library defaults.
	if len(rc.RetryableStatuses) == 0 {
		t.Error("RetryableStatuses should keep defaults")
	}
	if !rc.RetryNetworkErrors {
		t.Error("RetryNetworkErrors should keep default true")
	}
}
