package kv

import "context"

// Separator delimits path segments; a directory child in a listing carries
// it as a trailing suffix.
const Separator = "/"

// Secret is the field mapping stored at a path.
//
// Field names are caller-defined and opaque: no backend may rewrite,
// re-case, or otherwise canonicalize them. Values are anything that
// round-trips through JSON (strings, numbers, booleans, slices, nested
// maps).
type Secret map[string]any

// Store is the four-operation contract over a path-addressed KV v1 tree.
//
// Two implementations exist: the live HTTP backend in internal/vaultapi and
// the in-memory backend in internal/memstore. The two are behaviorally
// interchangeable for these four operations, with one documented exception:
// listing order is deterministic per backend but not guaranteed to match
// between them, so callers may rely on listing membership only.
//
// Paths use "/" as the hierarchy delimiter. A path may hold a secret and
// simultaneously be a prefix of deeper paths; "app/db" can be a leaf while
// "app/db/replica" also exists.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns the immediate children of path. Children that only hold
	// a secret are returned bare; children that have descendants carry a
	// trailing Separator. A path with no children yields a not-found error;
	// List has no fallback option.
	List(ctx context.Context, path string) ([]string, error)

	// Read returns a copy of the secret stored at path. When path holds no
	// secret (including a directory-only path) the error satisfies
	// IsNotFound unless a fallback was supplied via WithFallback, in which
	// case the fallback is returned instead.
	Read(ctx context.Context, path string, opts ...ReadOption) (Secret, error)

	// Write stores secret at path, replacing any previous value and
	// creating intermediate directories implicitly. Returns true on
	// success.
	Write(ctx context.Context, path string, secret Secret) (bool, error)

	// Delete removes the secret at path, leaving any deeper paths intact.
	// Deleting an absent secret is a successful no-op; Delete returns true
	// in both cases.
	Delete(ctx context.Context, path string) (bool, error)
}

// ReadOptions collects per-call Read behavior. Construct it from the
// variadic ReadOption list with NewReadOptions.
type ReadOptions struct {
	fallback    Secret
	hasFallback bool
}

// ReadOption customizes a single Read call.
type ReadOption func(*ReadOptions)

// WithFallback arranges for fallback to be returned instead of a not-found
// error when the target path holds no secret. It suppresses not-found only;
// every other failure still propagates.
func WithFallback(fallback Secret) ReadOption {
	return func(o *ReadOptions) {
		o.fallback = fallback
		o.hasFallback = true
	}
}

// NewReadOptions folds a ReadOption list into a ReadOptions value.
func NewReadOptions(opts []ReadOption) ReadOptions {
	var o ReadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Recover inspects a Read failure and decides whether the configured
// fallback absorbs it. It returns the fallback and true when err satisfies
// IsNotFound and a fallback was supplied; otherwise false, and the caller
// must propagate err unchanged.
func (o ReadOptions) Recover(err error) (Secret, bool) {
	if !o.hasFallback || !IsNotFound(err) {
		return nil, false
	}
	return o.fallback, true
}
