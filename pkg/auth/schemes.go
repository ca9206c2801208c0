package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
)

// Bearer returns a context that sends a bearer token in the Authorization
// header. The token may reference environment variables with ${VAR}
// syntax; expansion happens once, at construction.
func Bearer(token string) (*Context, error) {
	expanded, err := ExpandEnv(token)
	if err != nil {
		return nil, fmt.Errorf("bearer auth token expansion failed: %w", err)
	}
	if expanded == "" {
		return nil, fmt.Errorf("bearer auth requires token")
	}

	return &Context{
		HeaderReplacer: setHeader("Authorization", fmt.Sprintf("Bearer %s", expanded)),
	}, nil
}

// Basic returns a context that sends HTTP Basic credentials. Username and
// password may reference environment variables with ${VAR} syntax.
func Basic(username, password string) (*Context, error) {
	user, err := ExpandEnv(username)
	if err != nil {
		return nil, fmt.Errorf("basic auth username expansion failed: %w", err)
	}
	pass, err := ExpandEnv(password)
	if err != nil {
		return nil, fmt.Errorf("basic auth password expansion failed: %w", err)
	}

	if user == "" {
		return nil, fmt.Errorf("basic auth requires username")
	}
	if pass == "" {
		return nil, fmt.Errorf("basic auth requires password")
	}

	credentials := fmt.Sprintf("%s:%s", user, pass)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))

	return &Context{
		HeaderReplacer: setHeader("Authorization", fmt.Sprintf("Basic %s", encoded)),
	}, nil
}

// APIKey returns a context that sends an API key in a custom header. The
// value may reference environment variables with ${VAR} syntax.
func APIKey(header, value string) (*Context, error) {
	if header == "" {
		return nil, fmt.Errorf("api_key auth requires header name")
	}

	expanded, err := ExpandEnv(value)
	if err != nil {
		return nil, fmt.Errorf("api_key auth value expansion failed: %w", err)
	}
	if expanded == "" {
		return nil, fmt.Errorf("api_key auth requires value")
	}

	return &Context{
		HeaderReplacer: setHeader(header, expanded),
	}, nil
}

// APIKeyQuery returns a context that sends an API key as a query
// parameter. The value may reference environment variables with ${VAR}
// syntax.
func APIKeyQuery(name, value string) (*Context, error) {
	if name == "" {
		return nil, fmt.Errorf("api_key auth requires parameter name")
	}

	expanded, err := ExpandEnv(value)
	if err != nil {
		return nil, fmt.Errorf("api_key auth value expansion failed: %w", err)
	}
	if expanded == "" {
		return nil, fmt.Errorf("api_key auth requires value")
	}

	return &Context{
		QueryReplacer: func(_ context.Context, query url.Values) (url.Values, error) {
			out := cloneValues(query)
			out.Set(name, expanded)
			return out, nil
		},
	}, nil
}

// setHeader builds a header replacer that sets one fixed header.
func setHeader(name, value string) HeaderReplacer {
	return func(_ context.Context, header http.Header) (http.Header, error) {
		out := cloneHeader(header)
		out.Set(name, value)
		return out, nil
	}
}
