package sdk

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	courierrors "github.com/tombee/courier/pkg/errors"
)

// Stop is the sentinel a retry policy returns to terminate the call with
// the failure that triggered it. Any negative delay means the same.
const Stop time.Duration = -1

// RetryPolicy decides whether a failed attempt is retried. It receives
// the rewrite context of the failed attempt, the number of prior retry
// decisions (0 on the first failure, incremented by one per re-run), and
// the failure itself.
//
// Return semantics: a negative delay (Stop) terminates the call with the
// triggering failure; zero re-runs the pipeline immediately; a positive
// delay waits that long first. A returned error is terminal and
// supersedes the triggering failure (see RetryPolicyError).
type RetryPolicy func(ctx context.Context, rc RewriteContext, attempts int, failure error) (time.Duration, error)

// RetryConfig configures the built-in backoff policies.
type RetryConfig struct {
	// MaxRetries is the number of re-runs allowed after the first
	// attempt (default: 3).
	MaxRetries int

	// InitialBackoff is the delay before the first re-run (default: 1s).
	InitialBackoff time.Duration

	// MaxBackoff caps the computed delay (default: 30s).
	MaxBackoff time.Duration

	// BackoffFactor is the exponential multiplier applied per re-run
	// (default: 2.0).
	BackoffFactor float64

	// RetryableStatuses lists the HTTP status codes worth retrying.
	// Default: 408, 429, 500, 502, 503, 504.
	RetryableStatuses []int

	// RetryNetworkErrors retries transport failures that received no
	// response (default: true when built via DefaultRetryConfig).
	RetryNetworkErrors bool

	// Jitter adds a random 0-100ms spread to each delay so concurrent
	// callers do not re-run in lockstep (default: true when built via
	// DefaultRetryConfig).
	Jitter bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         30 * time.Second,
		BackoffFactor:      2.0,
		RetryableStatuses:  []int{408, 429, 500, 502, 503, 504},
		RetryNetworkErrors: true,
		Jitter:             true,
	}
}

// Validate checks if the retry configuration is valid.
func (c *RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.InitialBackoff < 0 {
		return fmt.Errorf("initial_backoff must be non-negative, got %v", c.InitialBackoff)
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff (%v) must be >= initial_backoff (%v)", c.MaxBackoff, c.InitialBackoff)
	}
	if c.BackoffFactor < 1.0 {
		return fmt.Errorf("backoff_factor must be >= 1.0, got %f", c.BackoffFactor)
	}
	return nil
}

// isRetryable reports whether the failure is worth re-running under this
// configuration. Hook failures and invalid call inputs never are; API
// failures follow the status list; anything else is a transport failure
// with no response.
func (c *RetryConfig) isRetryable(failure error) bool {
	var hookErr *HookError
	if errors.As(failure, &hookErr) {
		return false
	}

	var valErr *courierrors.ValidationError
	if errors.As(failure, &valErr) {
		return false
	}

	var apiErr *APIError
	if errors.As(failure, &apiErr) {
		for _, code := range c.RetryableStatuses {
			if code == apiErr.StatusCode {
				return true
			}
		}
		return false
	}

	return c.RetryNetworkErrors
}

// ExponentialBackoff returns a policy implementing capped exponential
// backoff with optional jitter and Retry-After awareness. Zero duration
// and factor fields fall back to the defaults; MaxRetries and the
// boolean fields are taken as configured, so a zero-value RetryConfig
// yields a policy that never retries.
//
// Delay formula: min(InitialBackoff * BackoffFactor^attempts, MaxBackoff),
// raised to the response's Retry-After hint when one is present (still
// capped at MaxBackoff), plus 0-100ms jitter when enabled.
func ExponentialBackoff(cfg RetryConfig) RetryPolicy {
	defaults := DefaultRetryConfig()
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = defaults.InitialBackoff
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = defaults.MaxBackoff
	}
	if cfg.BackoffFactor == 0 {
		cfg.BackoffFactor = defaults.BackoffFactor
	}
	if cfg.RetryableStatuses == nil {
		cfg.RetryableStatuses = defaults.RetryableStatuses
	}

	return func(ctx context.Context, rc RewriteContext, attempts int, failure error) (time.Duration, error) {
		if attempts >= cfg.MaxRetries {
			return Stop, nil
		}
		if !cfg.isRetryable(failure) {
			return Stop, nil
		}
		return cfg.BackoffDelay(attempts, failure), nil
	}
}

// BackoffDelay computes the wait before re-run number attempts+1 under
// this configuration, without deciding eligibility: capped exponential
// growth, raised to the failure's Retry-After hint when one is present,
// plus jitter when enabled. Zero duration and factor fields fall back to
// the defaults. Policies that make their own retry decision, such as
// expression-driven ones, use this for the schedule alone.
func (c RetryConfig) BackoffDelay(attempts int, failure error) time.Duration {
	defaults := DefaultRetryConfig()
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaults.InitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaults.MaxBackoff
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = defaults.BackoffFactor
	}

	delay := float64(c.InitialBackoff)
	for i := 0; i < attempts; i++ {
		delay *= c.BackoffFactor
	}
	if delay > float64(c.MaxBackoff) {
		delay = float64(c.MaxBackoff)
	}

	wait := time.Duration(delay)
	if hint := RetryAfterHint(failure); hint > wait {
		wait = hint
		if wait > c.MaxBackoff {
			wait = c.MaxBackoff
		}
	}

	if c.Jitter {
		wait += time.Duration(rand.Int63n(101)) * time.Millisecond
	}
	return wait
}

// ConstantBackoff returns a policy that re-runs any failure up to
// maxRetries times with a fixed delay between attempts. A zero delay
// re-runs immediately.
func ConstantBackoff(maxRetries int, delay time.Duration) RetryPolicy {
	return func(ctx context.Context, rc RewriteContext, attempts int, failure error) (time.Duration, error) {
		if attempts >= maxRetries {
			return Stop, nil
		}
		return delay, nil
	}
}

// RetryAfterHint extracts the Retry-After delay from an APIError's
// response headers. Both the numeric-seconds and HTTP-date forms are
// understood; anything else, including a date in the past, yields zero.
func RetryAfterHint(failure error) time.Duration {
	var apiErr *APIError
	if !errors.As(failure, &apiErr) || apiErr.Header == nil {
		return 0
	}

	value := apiErr.Header.Get("Retry-After")
	if value == "" {
		return 0
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	retryTime, err := http.ParseTime(value)
	if err != nil {
		return 0
	}

	delay := time.Until(retryTime)
	if delay < 0 {
		return 0
	}
	return delay
}
