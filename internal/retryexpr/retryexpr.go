// Package retryexpr compiles retry predicates written in expr-lang into
// retry policies.
//
// A predicate decides WHETHER a failed attempt is re-run; the delay
// before the re-run follows the backoff schedule of the RetryConfig the
// policy is built with. Predicates evaluate against a small environment
// describing the failure:
//
//	attempts    int     prior re-runs (0 on the first failure)
//	status      int     failing HTTP status, 0 when none was received
//	kind        string  failure classification (server_error, rate_limited,
//	                    network_error, hook_error, validation_error, ...)
//	operation   string  id of the operation being called
//	retryable   bool    whether the failure is generally worth retrying
//	retry_after float64 seconds hinted by the Retry-After header, 0 if absent
//
// Example predicates:
//
//	attempts < 5 && status >= 500
//	retryable && retry_after < 30
//	kind == "rate_limited" || kind == "network_error"
package retryexpr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	courierrors "github.com/tombee/courier/pkg/errors"
	"github.com/tombee/courier/sdk"
)

// Evaluator compiles retry predicates and caches the compiled programs,
// so a predicate shared across clients compiles once.
type Evaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// New creates an evaluator with an empty cache.
func New() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*vm.Program),
	}
}

// Policy compiles a predicate into a retry policy. A predicate returning
// false stops the call with the triggering failure; true re-runs it after
// the delay cfg's backoff schedule yields for the current attempt.
func (e *Evaluator) Policy(expression string, cfg sdk.RetryConfig) (sdk.RetryPolicy, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, &courierrors.ValidationError{
			Field:      "retry",
			Message:    fmt.Sprintf("failed to compile retry predicate: %s", err),
			Suggestion: "check the expression syntax; available variables: attempts, status, kind, operation, retryable, retry_after",
		}
	}

	return func(ctx context.Context, rc sdk.RewriteContext, attempts int, failure error) (time.Duration, error) {
		result, err := expr.Run(program, environment(rc, attempts, failure))
		if err != nil {
			return 0, fmt.Errorf("retry predicate: %w", err)
		}

		retry, ok := result.(bool)
		if !ok {
			return 0, fmt.Errorf("retry predicate must return a boolean, got %T", result)
		}
		if !retry {
			return sdk.Stop, nil
		}
		return cfg.BackoffDelay(attempts, failure), nil
	}, nil
}

// Validate checks that a predicate compiles, without building a policy.
// Used to reject bad expressions at configuration load time.
func (e *Evaluator) Validate(expression string) error {
	_, err := e.compile(expression)
	return err
}

// compile compiles an expression and caches the result.
func (e *Evaluator) compile(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("retry predicate cannot be empty")
	}

	e.mu.RLock()
	if prog, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	prog, err := expr.Compile(expression,
		expr.Env(environmentTemplate()),
		// The environment is assembled per evaluation; unknown names fail
		// at run time, not compile time.
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[expression] = prog
	e.mu.Unlock()

	return prog, nil
}

// CacheSize returns the number of cached predicates.
func (e *Evaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// environmentTemplate declares the predicate environment's shape for the
// compiler.
func environmentTemplate() map[string]any {
	return map[string]any{
		"attempts":    0,
		"status":      0,
		"kind":        "",
		"operation":   "",
		"retryable":   false,
		"retry_after": 0.0,
	}
}

// environment builds the evaluation environment for one failure.
func environment(rc sdk.RewriteContext, attempts int, failure error) map[string]any {
	env := environmentTemplate()
	env["attempts"] = attempts
	env["operation"] = rc.OperationID

	var apiErr *sdk.APIError
	if errors.As(failure, &apiErr) {
		env["status"] = apiErr.StatusCode
		env["kind"] = string(apiErr.Kind)
		env["retryable"] = apiErr.IsRetryable()
		env["retry_after"] = sdk.RetryAfterHint(failure).Seconds()
		return env
	}

	var hookErr *sdk.HookError
	var valErr *courierrors.ValidationError
	switch {
	case errors.As(failure, &hookErr):
		env["kind"] = "hook_error"
	case errors.As(failure, &valErr):
		env["kind"] = "validation_error"
	default:
		// A failure that is neither an API response nor a local pipeline
		// error is a transport failure with no response.
		env["kind"] = "network_error"
		env["retryable"] = true
	}
	return env
}
