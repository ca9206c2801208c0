package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/zalando/go-keyring"

	courierrors "github.com/tombee/courier/pkg/errors"
)

func TestKeyringSecret(t *testing.T) {
	keyring.MockInit()

	if err := keyring.Set("courier", "github-token", "ghp_stored123"); err != nil {
		t.Fatalf("seeding keyring: %v", err)
	}

	got, err := KeyringSecret("courier", "github-token")
	if err != nil {
		t.Fatalf("KeyringSecret() error = %v", err)
	}
	if got != "ghp_stored123" {
		t.Errorf("KeyringSecret() = %q, want %q", got, "ghp_stored123")
	}
}

func TestKeyringSecret_NotFound(t *testing.T) {
	keyring.MockInit()

	_, err := KeyringSecret("courier", "absent-account")
	if err == nil {
		t.Fatal("KeyringSecret() expected error for missing entry")
	}

	var notFound *courierrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("KeyringSecret() error = %T, want *NotFoundError", err)
	}
}

func TestBearerFromKeyring(t *testing.T) {
	keyring.MockInit()

	if err := keyring.Set("courier", "api-token", "kr-token-456"); err != nil {
		t.Fatalf("seeding keyring: %v", err)
	}

	sec, err := BearerFromKeyring("courier", "api-token")
	if err != nil {
		t.Fatalf("BearerFromKeyring() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	if got := header.Get("Authorization"); got != "Bearer kr-token-456" {
		t.Errorf("Authorization = %q, want keyring-sourced bearer", got)
	}
}
