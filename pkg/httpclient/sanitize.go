package httpclient

import (
	"fmt"
	"net/url"
	"strings"
)

// sensitiveParams are substrings that mark a query parameter as secret.
// A parameter whose lowercased name contains any of these is redacted
// before the URL reaches a log entry.
var sensitiveParams = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"auth",
	"secret",
	"key",
	"credential",
}

// protectedHeaders are headers the transport owns. Caller-supplied values
// must never override them.
var protectedHeaders = map[string]bool{
	"content-length":    true,
	"content-encoding":  true,
	"transfer-encoding": true,
	"host":              true,
}

// sanitizeURL returns u as a string with secret query parameters replaced
// by [REDACTED], for log output.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	redacted := false
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, "[REDACTED]")
			redacted = true
		}
	}
	if !redacted {
		return u.String()
	}

	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}

func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// SanitizeHeaderValue checks for header injection attempts.
// Returns an error if the value contains CR, LF, or null bytes.
func SanitizeHeaderValue(name, value string) error {
	for i, c := range value {
		if c == '\r' || c == '\n' || c == '\x00' {
			return fmt.Errorf("header %q contains invalid character at position %d", name, i)
		}
	}
	return nil
}

// IsProtectedHeader reports whether caller-supplied values for the header
// must be ignored. Comparison is case-insensitive.
func IsProtectedHeader(name string) bool {
	return protectedHeaders[strings.ToLower(name)]
}
