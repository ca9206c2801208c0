package sdk

import (
	"net/http"
	"time"
)

// Result is the outcome of a successful operation call.
type Result struct {
	// Status is the HTTP status code of the final response.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the decoded, transformed and schema-mapped response value.
	// JSON bodies decode into map[string]any / []any trees with
	// json.Number leaves unless a definition constructor built a typed
	// value for this status.
	Body any

	// Raw is the undecoded response body.
	Raw []byte

	// Meta describes how the call was executed.
	Meta Meta
}

// Meta carries call execution details for logging and diagnostics.
type Meta struct {
	// Operation is the id of the invoked operation.
	Operation string

	// RequestID is the per-call correlation id, also sent as
	// X-Correlation-ID on each dispatched request.
	RequestID string

	// URL is the final URL of the attempt that produced the result.
	URL string

	// Attempts is the number of dispatch attempts spent, including the
	// successful one.
	Attempts int

	// Duration is the total call time, retries and delays included.
	Duration time.Duration
}
