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

// UserVisibleError is implemented by errors that carry a message fit for
// end users. The CLI prefers UserMessage over Error when formatting an
// error that implements it. Domain errors such as sdk.APIError implement
// this interface.
type UserVisibleError interface {
	error

	// IsUserVisible reports whether the error should be surfaced to the
	// user at all. Internal diagnostics return false.
	IsUserVisible() bool

	// UserMessage is the message shown to the user, free of internal
	// detail.
	UserMessage() string

	// Suggestion is actionable guidance for resolving the error, or ""
	// when there is none.
	Suggestion() string
}

// ErrorClassifier is implemented by errors that can be handled
// programmatically, by retry predicates or by reporting.
type ErrorClassifier interface {
	error

	// ErrorType is the error category, e.g. "validation", "not_found",
	// "timeout", "api".
	ErrorType() string

	// IsRetryable reports whether retrying the failed operation could
	// succeed.
	IsRetryable() bool
}
