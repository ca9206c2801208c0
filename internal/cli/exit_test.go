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

package cli

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/tombee/courier/pkg/errors"
	"github.com/tombee/courier/sdk"
)

// mockUserVisibleError is a test implementation of UserVisibleError
type mockUserVisibleError struct {
	message    string
	suggestion string
	visible    bool
}

func (e *mockUserVisibleError) Error() string {
	return e.message
}

func (e *mockUserVisibleError) IsUserVisible() bool {
	return e.visible
}

func (e *mockUserVisibleError) UserMessage() string {
	return e.message
}

func (e *mockUserVisibleError) Suggestion() string {
	return e.suggestion
}

func TestExitErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		wantCode int
	}{
		{"invocation", NewInvocationError("call failed", nil), ExitInvocationFailed},
		{"descriptor", NewDescriptorError("bad descriptor", nil), ExitInvalidDescriptor},
		{"argument", NewArgumentError("bad flag", nil), ExitBadArguments},
		{"auth", NewAuthError("bad token", nil), ExitAuthError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, tt.err.Code)
			}
		})
	}
}

func TestExitError_Error(t *testing.T) {
	plain := NewArgumentError("bad flag", nil)
	if got := plain.Error(); got != "bad flag" {
		t.Errorf("expected 'bad flag', got %q", got)
	}

	wrapped := NewArgumentError("bad flag", errors.New("boom"))
	if got := wrapped.Error(); got != "bad flag: boom" {
		t.Errorf("expected 'bad flag: boom', got %q", got)
	}
}

func TestExitError_Unwrap(t *testing.T) {
	// Test that ExitError properly wraps cause errors
	innerErr := errors.New("inner error")
	exitErr := NewInvocationError("invocation failed", innerErr)

	unwrapped := errors.Unwrap(exitErr)
	if unwrapped != innerErr {
		t.Errorf("expected unwrapped error to be innerErr, got %v", unwrapped)
	}
}

func TestExitError_As(t *testing.T) {
	// errors.As should find the ExitError through further wrapping
	exitErr := NewDescriptorError("loading descriptors", errors.New("no matches"))
	wrapped := fmt.Errorf("startup: %w", exitErr)

	var got *ExitError
	if !errors.As(wrapped, &got) {
		t.Fatal("expected to unwrap ExitError from wrapped error")
	}
	if got.Code != ExitInvalidDescriptor {
		t.Errorf("expected code %d, got %d", ExitInvalidDescriptor, got.Code)
	}
}

func TestAPIError_ImplementsUserVisible(t *testing.T) {
	// sdk.APIError should integrate with CLI error formatting
	apiErr := &sdk.APIError{
		Kind:       sdk.KindAuth,
		Message:    "Unauthorized",
		StatusCode: 401,
	}

	var userErr pkgerrors.UserVisibleError = apiErr
	if !userErr.IsUserVisible() {
		t.Error("expected sdk.APIError to be user visible")
	}

	if userErr.UserMessage() != "Unauthorized (HTTP 401)" {
		t.Errorf("expected user message 'Unauthorized (HTTP 401)', got %q", userErr.UserMessage())
	}

	if userErr.Suggestion() == "" {
		t.Error("expected a suggestion for auth failures")
	}
}

func TestExitError_WithUserVisibleCause(t *testing.T) {
	// Test ExitError wrapping a UserVisibleError
	cause := &mockUserVisibleError{
		message:    "resource not found",
		suggestion: "Verify the resource ID",
		visible:    true,
	}

	exitErr := NewInvocationError("operation failed", cause)

	// Verify we can unwrap to get the UserVisibleError
	var userErr pkgerrors.UserVisibleError
	if !errors.As(exitErr, &userErr) {
		t.Fatal("expected to unwrap UserVisibleError from ExitError")
	}

	if userErr.Suggestion() != "Verify the resource ID" {
		t.Errorf("expected suggestion from cause error, got %q", userErr.Suggestion())
	}
}

func TestExitError_WithAPIErrorCause(t *testing.T) {
	apiErr := &sdk.APIError{
		Kind:       sdk.KindRateLimit,
		Message:    "Too Many Requests",
		StatusCode: 429,
	}

	exitErr := NewInvocationError("invoking pets.list", apiErr)

	var userErr pkgerrors.UserVisibleError
	if !errors.As(exitErr, &userErr) {
		t.Fatal("expected to unwrap UserVisibleError from ExitError")
	}

	if userErr.Suggestion() == "" {
		t.Error("expected a suggestion for rate-limit failures")
	}
}

func TestNonUserVisibleError(t *testing.T) {
	// A regular error that doesn't implement UserVisibleError
	regularErr := errors.New("some internal error")

	var userErr pkgerrors.UserVisibleError
	if errors.As(regularErr, &userErr) {
		t.Error("regular error should not implement UserVisibleError")
	}
}
