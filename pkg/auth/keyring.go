package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	courierrors "github.com/tombee/courier/pkg/errors"
)

// KeyringSecret reads a secret from the system keyring.
// Supported platforms:
//   - macOS: Keychain Access
//   - Linux: Secret Service API (GNOME Keyring, KWallet)
//   - Windows: Credential Manager
func KeyringSecret(service, account string) (string, error) {
	value, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", &courierrors.NotFoundError{
				Resource: "keyring secret",
				ID:       service + "/" + account,
			}
		}
		return "", fmt.Errorf("keyring error: %w", err)
	}
	return value, nil
}

// BearerFromKeyring returns a bearer context whose token is read from the
// system keyring. The stored value is used verbatim, with no environment
// expansion.
func BearerFromKeyring(service, account string) (*Context, error) {
	token, err := KeyringSecret(service, account)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("keyring entry %s/%s is empty", service, account)
	}

	return &Context{
		HeaderReplacer: setHeader("Authorization", fmt.Sprintf("Bearer %s", token)),
	}, nil
}
