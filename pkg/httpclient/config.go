package httpclient

import (
	"fmt"
	"time"
)

// Config configures the HTTP client with timeout, pooling, and observability
// settings.
type Config struct {
	// Timeout is the total request timeout.
	// Default: 30s. Must be > 0.
	Timeout time.Duration

	// UserAgent is the User-Agent header value.
	// Required. Must be non-empty.
	UserAgent string

	// MaxIdleConnsPerHost caps pooled connections per host. A courier client
	// usually talks to a single API host, so this is the limit that matters.
	// Default: 10. Must be >= 0 (0 uses the default).
	MaxIdleConnsPerHost int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		UserAgent:           "courier-http-client/1.0",
		MaxIdleConnsPerHost: 10,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	if c.MaxIdleConnsPerHost < 0 {
		return fmt.Errorf("max_idle_conns_per_host must be >= 0, got %d", c.MaxIdleConnsPerHost)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}
	return nil
}
