package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsConfig configures the OAuth2 client credentials flow.
type ClientCredentialsConfig struct {
	// ClientID is the OAuth2 client ID. May use ${VAR} syntax.
	ClientID string

	// ClientSecret is the OAuth2 client secret. May use ${VAR} syntax.
	ClientSecret string

	// TokenURL is the OAuth2 token endpoint.
	TokenURL string

	// Scopes are the OAuth2 scopes (optional).
	Scopes []string
}

// ClientCredentials returns a context that acquires tokens through the
// OAuth2 client credentials flow. The token source caches the current
// token and refreshes it before expiry; concurrent calls share one
// source.
func ClientCredentials(cfg ClientCredentialsConfig) (*Context, error) {
	clientID, err := ExpandEnv(cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("oauth2 client_id expansion failed: %w", err)
	}
	clientSecret, err := ExpandEnv(cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("oauth2 client_secret expansion failed: %w", err)
	}

	if clientID == "" {
		return nil, fmt.Errorf("oauth2 auth requires client_id")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("oauth2 auth requires client_secret")
	}
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("oauth2 auth requires token_url")
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	source := cc.TokenSource(context.Background())

	return &Context{
		HeaderReplacer: func(_ context.Context, header http.Header) (http.Header, error) {
			token, err := source.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to acquire OAuth2 token: %w", err)
			}

			out := cloneHeader(header)
			out.Set("Authorization", fmt.Sprintf("%s %s", token.Type(), token.AccessToken))
			return out, nil
		},
	}, nil
}
