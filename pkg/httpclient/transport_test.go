package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tombee/courier/internal/tracing"
)

// roundTrip sends a request through a fresh loggingTransport to a test
// server and returns the headers the server saw.
func roundTrip(t *testing.T, req *http.Request) http.Header {
	t.Helper()

	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	target, err := http.NewRequestWithContext(req.Context(), req.Method, server.URL, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	for k, vs := range req.Header {
		target.Header[k] = vs
	}

	transport := newLoggingTransport(http.DefaultTransport, "test-agent/1.0")
	resp, err := transport.RoundTrip(target)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()
	return seen
}

func TestLoggingTransport_SetsUserAgent(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://placeholder", nil)
	seen := roundTrip(t, req)

	if got := seen.Get("User-Agent"); got != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want test-agent/1.0", got)
	}
}

func TestLoggingTransport_PreservesExistingUserAgent(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://placeholder", nil)
	req.Header.Set("User-Agent", "custom-agent/2.0")
	seen := roundTrip(t, req)

	if got := seen.Get("User-Agent"); got != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want custom-agent/2.0", got)
	}
}

func TestLoggingTransport_InjectsCorrelationID(t *testing.T) {
	corrID := tracing.NewCorrelationID()
	ctx := tracing.ToContext(context.Background(), corrID)

	req, _ := http.NewRequestWithContext(ctx, "GET", "http://placeholder", nil)
	seen := roundTrip(t, req)

	if got := seen.Get(tracing.HeaderCorrelationID); got != corrID.String() {
		t.Errorf("correlation header = %q, want %q", got, corrID)
	}
}

func TestLoggingTransport_NoCorrelationIDWithoutContext(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://placeholder", nil)
	seen := roundTrip(t, req)

	if got := seen.Get(tracing.HeaderCorrelationID); got != "" {
		t.Errorf("correlation header = %q, want unset", got)
	}
}

func TestLoggingTransport_DoesNotMutateRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := newLoggingTransport(nil, "test-agent/1.0")
	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	if got := req.Header.Get("User-Agent"); got != "" {
		t.Errorf("caller's request grew a User-Agent header: %q", got)
	}
}
