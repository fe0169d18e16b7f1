package vaultapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/systmms/vaultkv/pkg/kv"
)

var _ kv.Store = (*Client)(nil)

// List returns the immediate children of path. The service renders
// directory children with a trailing separator and orders keys
// lexicographically; both are passed through untouched.
func (c *Client) List(ctx context.Context, path string) ([]string, error) {
	envelope, err := c.execute(ctx, request{
		method: http.MethodGet,
		path:   path,
		list:   true,
	})
	if err != nil {
		return nil, err
	}

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("list %s: response envelope has no data", path)
	}
	rawKeys, ok := data["keys"].([]any)
	if !ok {
		return nil, fmt.Errorf("list %s: response data has no keys", path)
	}

	names := make([]string, 0, len(rawKeys))
	for _, raw := range rawKeys {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("list %s: non-string key %v in response", path, raw)
		}
		names = append(names, name)
	}
	return names, nil
}

// Read returns the secret at path. The service answers 404 both for wholly
// absent paths and for directory-only paths, so the two read identically.
func (c *Client) Read(ctx context.Context, path string, opts ...kv.ReadOption) (kv.Secret, error) {
	o := kv.NewReadOptions(opts)

	envelope, err := c.execute(ctx, request{
		method: http.MethodGet,
		path:   path,
	})
	if err != nil {
		if fallback, ok := o.Recover(err); ok {
			return fallback, nil
		}
		return nil, err
	}

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("read %s: response envelope has no data", path)
	}
	return kv.Secret(data), nil
}

// Write stores secret at path. The service signals success with any 2xx,
// commonly a bodyless 204.
func (c *Client) Write(ctx context.Context, path string, secret kv.Secret) (bool, error) {
	_, err := c.execute(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   secret,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the secret at path. A 404 from the service still counts
// as success: the contract promises deletion of an absent secret is a
// no-op.
func (c *Client) Delete(ctx context.Context, path string) (bool, error) {
	_, err := c.execute(ctx, request{
		method: http.MethodDelete,
		path:   path,
	})
	if err != nil {
		if kv.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// LookupSelf verifies the current token against the service's
// auth/token/lookup-self endpoint and returns the normalized envelope. The
// login and doctor commands use it as a cheap credential probe.
func (c *Client) LookupSelf(ctx context.Context) (map[string]any, error) {
	return c.execute(ctx, request{
		method: http.MethodGet,
		path:   "auth/token/lookup-self",
	})
}
