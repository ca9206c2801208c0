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

package errors

import (
	"fmt"
	"time"
)

// ValidationError reports invalid caller input: a malformed descriptor,
// a bad argument value, or a violated constraint.
type ValidationError struct {
	// Field names the input that failed, when one can be singled out.
	Field string

	// Message describes the failure.
	Message string

	// Suggestion tells the caller how to fix it.
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError reports a lookup miss for a named resource such as an
// operation, a definition, or a descriptor.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError reports a problem with loaded configuration: an unreadable
// file, a missing setting, or a value that fails validation.
type ConfigError struct {
	// Key is the offending setting, e.g. "auth.profile" or "client.timeout".
	Key string

	// Reason explains what is wrong.
	Reason string

	// Cause is the underlying error, if one exists.
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// TimeoutError reports an operation that exceeded its deadline.
type TimeoutError struct {
	// Operation describes what timed out, e.g. "dispatch" or "transform".
	Operation string

	// Duration is how long the operation ran.
	Duration time.Duration

	// Cause is the underlying error, if one exists.
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s operation timed out after %v", e.Operation, e.Duration)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}
