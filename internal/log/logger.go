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

// Package log configures the slog logger shared by the CLI and the SDK
// and defines the field keys used across call and dispatch log entries.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON emits one JSON object per entry, for machine consumption.
	FormatJSON Format = "json"
	// FormatText emits human-readable key=value lines.
	FormatText Format = "text"
)

// LevelTrace sits below Debug and carries wire-level detail such as
// request and response bodies.
const LevelTrace = slog.Level(-8)

// Field keys shared by every component that logs calls. Using the
// constants keeps entries from the pipeline, the retry loop, and the
// transport joinable on the same names.
const (
	// OperationKey names the operation being invoked.
	OperationKey = "operation"
	// RequestIDKey carries the per-call correlation identifier.
	RequestIDKey = "request_id"
	// AttemptKey is the zero-based retry attempt number.
	AttemptKey = "attempt"
	// StatusKey is the HTTP status code of a response.
	StatusKey = "status"
	// DurationKey is elapsed time in milliseconds.
	DurationKey = "duration_ms"
	// HostKey is the host a request was dispatched to.
	HostKey = "host"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	Level string

	// Format selects json or text output.
	Format Format

	// Output receives log entries. Defaults to os.Stderr.
	Output io.Writer

	// AddSource annotates entries with the file and line that logged them.
	AddSource bool
}

// DefaultConfig returns a Config with sensible defaults: info-level JSON
// on stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

// FromEnv builds a Config from the environment:
//
//   - COURIER_DEBUG=true|1 forces debug level with source locations
//   - COURIER_LOG_LEVEL, then LOG_LEVEL, set the level otherwise
//   - LOG_FORMAT selects json or text
//   - LOG_SOURCE=1 enables source locations
func FromEnv() *Config {
	cfg := DefaultConfig()

	debug := os.Getenv("COURIER_DEBUG")
	if debug == "true" || debug == "1" {
		cfg.Level = "debug"
		cfg.AddSource = true
	}

	if debug == "" {
		if level := os.Getenv("COURIER_LOG_LEVEL"); level != "" {
			cfg.Level = strings.ToLower(level)
		} else if level := os.Getenv("LOG_LEVEL"); level != "" {
			cfg.Level = strings.ToLower(level)
		}
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}

	if os.Getenv("LOG_SOURCE") == "1" {
		cfg.AddSource = true
	}

	return cfg
}

// New creates a structured logger from cfg. A nil cfg gets the defaults.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithOperation returns a logger whose entries all carry the operation
// identifier and the per-call request id.
func WithOperation(logger *slog.Logger, operationID, requestID string) *slog.Logger {
	return logger.With(
		slog.String(OperationKey, operationID),
		slog.String(RequestIDKey, requestID),
	)
}

// String creates a string attribute.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int creates an int attribute.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Error creates an error attribute.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// Duration creates a millisecond duration attribute, suffixing the key
// with "_ms" so the unit is visible in the entry itself.
func Duration(key string, value int64) slog.Attr {
	return slog.Int64(key+"_ms", value)
}
