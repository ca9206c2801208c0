package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTBearer(t *testing.T) {
	t.Setenv("COURIER_JWT_SECRET", "signing-secret-123")

	sec, err := JWTBearer(JWTConfig{
		Secret:   "${COURIER_JWT_SECRET}",
		Issuer:   "courier-test",
		Subject:  "svc-account",
		Audience: []string{"api.example.com"},
		TTL:      2 * time.Minute,
	})
	if err != nil {
		t.Fatalf("JWTBearer() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}

	raw := header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		t.Fatalf("Authorization = %q, want Bearer scheme", raw)
	}
	tokenString := strings.TrimPrefix(raw, "Bearer ")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("signing-secret-123"), nil
	})
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if !token.Valid {
		t.Fatal("minted token did not validate")
	}
	if token.Method.Alg() != "HS256" {
		t.Errorf("alg = %q, want HS256", token.Method.Alg())
	}

	if claims.Issuer != "courier-test" {
		t.Errorf("iss = %q, want courier-test", claims.Issuer)
	}
	if claims.Subject != "svc-account" {
		t.Errorf("sub = %q, want svc-account", claims.Subject)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "api.example.com" {
		t.Errorf("aud = %v, want [api.example.com]", claims.Audience)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 2*time.Minute {
		t.Errorf("token lifetime = %v, want 2m", lifetime)
	}
}

func TestJWTBearer_FreshTokenPerApplication(t *testing.T) {
	sec, err := JWTBearer(JWTConfig{Secret: "signing-secret-123"})
	if err != nil {
		t.Fatalf("JWTBearer() error = %v", err)
	}

	first, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	second, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}

	if first.Get("Authorization") == second.Get("Authorization") {
		t.Error("expected a fresh token per application")
	}
}

func TestJWTBearer_RequiresSecret(t *testing.T) {
	if _, err := JWTBearer(JWTConfig{}); err == nil {
		t.Error("JWTBearer() with no secret expected error")
	}
}
