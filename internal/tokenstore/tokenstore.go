// Package tokenstore persists service tokens in the OS keyring so a login
// survives the process. Tokens are keyed by service address, letting one
// machine hold credentials for several deployments.
package tokenstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// service namespaces our entries inside the OS keyring.
const service = "vaultkv"

// ErrNoToken reports that the keyring holds no token for the address.
var ErrNoToken = errors.New("no stored token for this address")

// Save stores token for address, replacing any previous entry.
func Save(address, token string) error {
	if err := keyring.Set(service, address, token); err != nil {
		return fmt.Errorf("store token in keyring: %w", err)
	}
	return nil
}

// Load returns the stored token for address, or ErrNoToken.
func Load(address string) (string, error) {
	token, err := keyring.Get(service, address)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token from keyring: %w", err)
	}
	return token, nil
}

// Forget removes the stored token for address. Forgetting an absent token
// is a no-op.
func Forget(address string) error {
	err := keyring.Delete(service, address)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("remove token from keyring: %w", err)
	}
	return nil
}
