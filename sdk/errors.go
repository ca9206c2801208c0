package sdk

import (
	"fmt"
	"net/http"
)

// CodeRequestFailed is the generic failure code carried by an APIError
// when the transport supplies no more specific one.
const CodeRequestFailed = "request_failed"

// Kind classifies an APIError for retry logic and error handling.
type Kind string

const (
	// KindAuth indicates authentication or authorization failure (401, 403).
	KindAuth Kind = "auth_error"

	// KindNotFound indicates resource not found (404).
	KindNotFound Kind = "not_found"

	// KindValidation indicates invalid request data (400, 422).
	KindValidation Kind = "validation_error"

	// KindRateLimit indicates rate limit exceeded (429).
	KindRateLimit Kind = "rate_limited"

	// KindServer indicates a server-side error (5xx).
	KindServer Kind = "server_error"

	// KindAPI is the generic classification for any other failing status.
	KindAPI Kind = "api_error"
)

// ClassifyStatus maps a failing HTTP status code to its error kind.
func ClassifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500:
		return KindServer
	default:
		return KindAPI
	}
}

// APIError is the normalized failure for a dispatched request that received
// a failing response. Transport failures with no received response are
// never wrapped in an APIError; they surface as the underlying error.
type APIError struct {
	// Kind classifies the failure for retry logic.
	Kind Kind

	// Message is the response descriptor's documented description for the
	// failing status when one is declared, else "<status> <status text>".
	Message string

	// Code is a stable machine-readable failure code. Always
	// CodeRequestFailed unless the transport supplied something more
	// specific.
	Code string

	// StatusCode is the HTTP status of the failing response.
	StatusCode int

	// Data is the error payload: built through the definition registry
	// when the operation declares a schema reference for this status,
	// otherwise the decoded response body as-is.
	Data any

	// Header holds the failing response's headers.
	Header http.Header

	// Request and Response reference the originating exchange for
	// diagnostics. Response.Body has already been drained and closed.
	Request  *http.Request
	Response *http.Response

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if e.Kind != "" {
		msg = fmt.Sprintf("%s (kind: %s)", msg, e.Kind)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the failure kind is generally worth
// retrying. Built-in retry policies consult the declared status list
// instead; this helper serves custom policies.
func (e *APIError) IsRetryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// ErrorType returns the failure kind as a stable string for
// programmatic classification.
func (e *APIError) ErrorType() string {
	return string(e.Kind)
}

// IsUserVisible reports that API failures are safe to surface to end
// users. The message comes from the response descriptor or the status
// text, never from internal state.
func (e *APIError) IsUserVisible() bool {
	return true
}

// UserMessage returns the failure description without the diagnostic
// wrapping that Error adds.
func (e *APIError) UserMessage() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Suggestion returns guidance keyed on the failure kind, or empty when
// no generic advice applies.
func (e *APIError) Suggestion() string {
	switch e.Kind {
	case KindAuth:
		return "Check your credentials and auth configuration"
	case KindNotFound:
		return "Verify the operation ID and its path parameters"
	case KindValidation:
		return "Check the request arguments against the operation's declared parameters"
	case KindRateLimit:
		return "Wait before retrying, or use a retry policy that honors Retry-After"
	default:
		return ""
	}
}

// Hook stages reported by HookError.
const (
	StageArguments   = "arguments_rewrite"
	StageContentType = "content_type"
	StageHostRewrite = "host_rewrite"
	StageURLRewrite  = "url_rewrite"
	StageAuthHeader  = "auth_header"
	StageAuthQuery   = "auth_query"
	StageTransform   = "transform"
)

// HookError reports a failing rewrite, resolver, security or transform
// hook. It aborts the current attempt and reaches the retry policy like
// any other attempt failure; the built-in policies treat it as terminal.
type HookError struct {
	// Stage names the pipeline extension point that failed.
	Stage string

	// Err is the error the hook returned.
	Err error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Stage, e.Err)
}

// Unwrap returns the hook's error for errors.Is/As support.
func (e *HookError) Unwrap() error {
	return e.Err
}

// RetryPolicyError reports a retry policy invocation that itself failed.
// It is terminal: the policy failure supersedes the attempt failure that
// triggered the retry decision. The superseded failure is retained on
// Original for diagnostics only.
type RetryPolicyError struct {
	// Err is the error the policy returned.
	Err error

	// Original is the attempt failure that was being considered for
	// retry when the policy failed.
	Original error
}

// Error implements the error interface.
func (e *RetryPolicyError) Error() string {
	return fmt.Sprintf("retry policy failed: %v", e.Err)
}

// Unwrap returns the policy's error. The original attempt failure is
// deliberately not part of the unwrap chain; the policy failure replaces
// it.
func (e *RetryPolicyError) Unwrap() error {
	return e.Err
}
