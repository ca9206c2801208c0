// Package jqx compiles and runs jq expressions against decoded response
// values, with timeout and input-size limits.
package jqx

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/itchyny/gojq"

	courierrors "github.com/tombee/courier/pkg/errors"
)

const (
	// DefaultTimeout bounds a single jq execution (1 second)
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize bounds the serialized input size (10MB)
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Program is a compiled jq expression. Compile once at client construction,
// run per response; Run is safe for concurrent use.
type Program struct {
	source       string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int64
}

// Compile parses and compiles a jq expression with default limits.
func Compile(expression string) (*Program, error) {
	return CompileWithLimits(expression, 0, 0)
}

// CompileWithLimits parses and compiles a jq expression. A zero timeout or
// size limit selects the default.
func CompileWithLimits(expression string, timeout time.Duration, maxInputSize int64) (*Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("jq expression cannot be empty")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	return &Program{
		source:       expression,
		code:         code,
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}, nil
}

// String returns the original expression source.
func (p *Program) String() string {
	return p.source
}

// Run evaluates the program against data. Zero results yield nil, a single
// result is returned directly, multiple results come back as a slice.
func (p *Program) Run(ctx context.Context, data any) (any, error) {
	if err := p.validateInputSize(data); err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resultChan := make(chan any, 1)
	errorChan := make(chan error, 1)

	go func() {
		iter := p.code.RunWithContext(execCtx, normalize(data))

		var results []any
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				errorChan <- err
				return
			}

			results = append(results, v)
		}

		// If single result, return it directly
		// If multiple results, return as array
		if len(results) == 0 {
			resultChan <- nil
		} else if len(results) == 1 {
			resultChan <- results[0]
		} else {
			resultChan <- results
		}
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errorChan:
		// The iterator aborts with its own error when the context ends;
		// report cancellation and deadline uniformly regardless of which
		// side notices first.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if execCtx.Err() != nil {
			return nil, p.timeoutError(execCtx.Err())
		}
		return nil, err
	case <-execCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, p.timeoutError(execCtx.Err())
	}
}

func (p *Program) timeoutError(cause error) error {
	return &courierrors.TimeoutError{
		Operation: "jq transform",
		Duration:  p.timeout,
		Cause:     cause,
	}
}

// Validate checks a jq expression by attempting to compile it. Used to
// catch syntax errors at client construction time.
func Validate(expression string) error {
	if expression == "" {
		return nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	_, err = gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("jq compilation failed: %w", err)
	}

	return nil
}

// validateInputSize checks if the data size is within limits.
func (p *Program) validateInputSize(data any) error {
	// Estimate size by marshaling to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if int64(len(jsonData)) > p.maxInputSize {
		return fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)",
			len(jsonData), p.maxInputSize)
	}

	return nil
}

// normalize converts decoder output into the value kinds gojq accepts.
// json.Number leaves become int, *big.Int or float64 so integers past
// float64 precision stay exact through the query.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		s := val.String()
		if i, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil {
			return int(i)
		}
		if bi, ok := new(big.Int).SetString(s, 10); ok {
			return bi
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return s
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
