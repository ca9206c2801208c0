package httpclient

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}

	if cfg.UserAgent == "" {
		t.Error("expected non-empty user agent")
	}

	if cfg.MaxIdleConnsPerHost != 10 {
		t.Errorf("expected max idle conns per host 10, got %d", cfg.MaxIdleConnsPerHost)
	}

	// Should be valid
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		expectErr bool
		errText   string
	}{
		{
			name: "valid config",
			cfg: Config{
				Timeout:             10 * time.Second,
				UserAgent:           "test-agent/1.0",
				MaxIdleConnsPerHost: 5,
			},
			expectErr: false,
		},
		{
			name: "zero timeout",
			cfg: Config{
				Timeout:   0,
				UserAgent: "test-agent/1.0",
			},
			expectErr: true,
			errText:   "timeout must be > 0",
		},
		{
			name: "negative timeout",
			cfg: Config{
				Timeout:   -1 * time.Second,
				UserAgent: "test-agent/1.0",
			},
			expectErr: true,
			errText:   "timeout must be > 0",
		},
		{
			name: "negative pool size",
			cfg: Config{
				Timeout:             10 * time.Second,
				UserAgent:           "test-agent/1.0",
				MaxIdleConnsPerHost: -1,
			},
			expectErr: true,
			errText:   "max_idle_conns_per_host must be >= 0",
		},
		{
			name: "zero pool size uses default",
			cfg: Config{
				Timeout:   10 * time.Second,
				UserAgent: "test-agent/1.0",
			},
			expectErr: false,
		},
		{
			name: "empty user agent",
			cfg: Config{
				Timeout:   10 * time.Second,
				UserAgent: "",
			},
			expectErr: true,
			errText:   "user_agent is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errText)
				} else if tt.errText != "" && !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("expected error containing %q, got %q", tt.errText, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	}
}
