// Package secure keeps the client token protected while the process runs.
//
// The token sits in a memguard enclave: encrypted at rest in memory,
// mlocked against swapping where the OS allows it, decrypted only for the
// instant a request needs the value. Call memguard.Purge() in a defer in
// main() for full cleanup at exit.
package secure

import (
	"sync"
	"time"

	"github.com/awnumar/memguard"
)

// TokenCell is the authentication cell shared by all requests on a client
// handle. The held token may be replaced at any time; replacement swaps the
// whole enclave under the lock, so concurrent readers observe either the
// old token or the new one, never a torn value. Requests already in flight
// keep the token they read.
type TokenCell struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	expiresAt time.Time
}

// NewTokenCell returns an empty cell. Use Set to populate it.
func NewTokenCell() *TokenCell {
	return &TokenCell{}
}

// Set replaces the held token. An empty token clears the cell. The input
// string is copied into protected memory; callers holding other copies
// should discard them.
func (c *TokenCell) Set(token string) {
	c.SetWithTTL(token, 0)
}

// SetWithTTL replaces the held token and arranges for it to expire after
// ttl. A zero ttl means no expiry. A small buffer is shaved off so the
// token reads as absent slightly before the service would reject it.
func (c *TokenCell) SetWithTTL(token string, ttl time.Duration) {
	var enclave *memguard.Enclave
	if token != "" {
		enclave = memguard.NewEnclave([]byte(token))
	}

	var expiresAt time.Time
	if ttl > 0 {
		buffer := 5 * time.Second
		if ttl > buffer {
			ttl -= buffer
		}
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.enclave = enclave
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

// Token decrypts and returns the current token. The second result is false
// when the cell is empty or the token has expired.
func (c *TokenCell) Token() (string, bool) {
	c.mu.RLock()
	enclave := c.enclave
	expiresAt := c.expiresAt
	c.mu.RUnlock()

	if enclave == nil {
		return "", false
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		return "", false
	}

	locked, err := enclave.Open()
	if err != nil {
		return "", false
	}
	defer locked.Destroy()
	return string(locked.Bytes()), true
}

// Clear drops the held token. Idempotent.
func (c *TokenCell) Clear() {
	c.mu.Lock()
	c.enclave = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// TTL reports the time remaining before expiry, or zero when the cell is
// empty, expired, or has no expiry set.
func (c *TokenCell) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.enclave == nil || c.expiresAt.IsZero() {
		return 0
	}
	remaining := time.Until(c.expiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
