package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures locally minted JWT bearer credentials.
type JWTConfig struct {
	// Secret is the HS256 signing key. May use ${VAR} syntax.
	Secret string

	// Issuer populates the iss claim (optional).
	Issuer string

	// Subject populates the sub claim (optional).
	Subject string

	// Audience populates the aud claim (optional).
	Audience []string

	// TTL bounds each token's lifetime (default: 5 minutes).
	TTL time.Duration
}

// JWTBearer returns a context that mints a fresh HS256-signed token per
// application and sends it as a bearer credential. Tokens are short-lived
// by design; every attempt gets its own iat/exp pair.
func JWTBearer(cfg JWTConfig) (*Context, error) {
	secret, err := ExpandEnv(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("jwt auth secret expansion failed: %w", err)
	}
	if secret == "" {
		return nil, fmt.Errorf("jwt auth requires signing secret")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	key := []byte(secret)

	return &Context{
		HeaderReplacer: func(_ context.Context, header http.Header) (http.Header, error) {
			now := time.Now()
			claims := jwt.RegisteredClaims{
				Issuer:    cfg.Issuer,
				Subject:   cfg.Subject,
				Audience:  jwt.ClaimStrings(cfg.Audience),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString(key)
			if err != nil {
				return nil, fmt.Errorf("failed to sign token: %w", err)
			}

			out := cloneHeader(header)
			out.Set("Authorization", fmt.Sprintf("Bearer %s", signed))
			return out, nil
		},
	}, nil
}
