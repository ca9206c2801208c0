package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tombee/courier/internal/tracing"
)

// loggingTransport is the outermost layer of the client's transport
// stack. It stamps the User-Agent, propagates the correlation id from
// the request context, and logs every round trip with a sanitized URL.
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newLoggingTransport(base http.RoundTripper, userAgent string) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, userAgent: userAgent}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// headers are added; RoundTrippers must not mutate their input.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}
	if corrID := tracing.FromContextOrEmpty(out.Context()); corrID.IsValid() {
		out.Header.Set(tracing.HeaderCorrelationID, corrID.String())
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	elapsed := time.Since(start).Milliseconds()

	logURL := sanitizeURL(out.URL)

	if err != nil {
		slog.Warn("http request failed",
			"method", out.Method,
			"url", logURL,
			"duration_ms", elapsed,
			"error", err.Error(),
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(out.Context(), level, "http request",
		"method", out.Method,
		"url", logURL,
		"status", resp.StatusCode,
		"duration_ms", elapsed,
	)

	return resp, nil
}
