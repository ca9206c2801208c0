// Package httpclient builds the HTTP clients courier dispatches requests
// through.
//
// The factory layers a logging round-tripper over a pooled base transport
// with secure defaults:
//   - Request logging with sanitized URLs (sensitive parameters redacted)
//   - User-Agent header injection
//   - Correlation ID propagation for distributed tracing
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - Connection pooling for performance
//
// Retry and backoff are owned by the call loop in the sdk package; the
// transport never re-sends a request itself, so a failed round trip
// surfaces exactly once.
//
// # Usage
//
// Create a client with default settings:
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get("https://api.example.com/resource")
//
// Customize configuration:
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "my-service/2.0"
//	cfg.Timeout = 60 * time.Second
//	client, err := httpclient.New(cfg)
//
// # AWS request signing
//
// For APIs fronted by AWS (API Gateway with IAM auth, S3-compatible
// endpoints), wrap the transport with SigV4 signing:
//
//	signing, err := httpclient.NewSigV4Transport(ctx, httpclient.SigV4Config{
//	    Service: "execute-api",
//	    Region:  "us-east-1",
//	})
//	if err != nil {
//	    return err
//	}
//	client := &http.Client{Transport: signing}
//
// # Security
//
// The package includes security features:
//   - Sensitive query parameters (api_key, token, password, etc.) are redacted from logs
//   - Authorization headers are never logged
//   - Header values are rejected when they carry CR, LF, or null bytes (SanitizeHeaderValue)
//   - Transport-owned headers (Host, Content-Length, ...) cannot be overridden by
//     caller input (IsProtectedHeader)
//   - TLS 1.2 minimum with certificate validation enabled
//   - Connection pooling limits prevent resource exhaustion
//
// # Observability
//
// All requests emit structured logs via log/slog:
//   - Debug level: successful requests (2xx/3xx status)
//   - Warn level: failed requests (4xx/5xx status, errors)
//   - Fields: method, url (sanitized), status, duration_ms, error
//   - Correlation IDs automatically propagated when present in request context
package httpclient
