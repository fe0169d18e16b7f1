// Package memstore implements the kv.Store contract over a process-local
// tree, for tests and offline development. No network access is involved.
//
// Listing order for this backend is lexicographic by child name. The live
// service happens to order the same way today, but the contract only
// guarantees membership across backends.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/systmms/vaultkv/pkg/kv"
	"gopkg.in/yaml.v3"
)

// node is one position in the path tree. A node may hold a secret, have
// children, or both; "kv/foo" can carry a value while "kv/foo/bar" exists.
type node struct {
	secret   kv.Secret
	children map[string]*node
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Store is the in-memory backend. The zero value is not usable; call New.
//
// A single RWMutex guards the tree: reads run concurrently, writes and
// deletes are exclusive, so no caller ever observes a partially-updated
// tree.
type Store struct {
	mu   sync.RWMutex
	root *node
}

// New returns an empty store.
func New() *Store {
	return &Store{root: newNode()}
}

var _ kv.Store = (*Store)(nil)

// Write stores a copy of secret at path, creating intermediate directories
// implicitly. It always succeeds for a valid path.
func (s *Store) Write(ctx context.Context, path string, secret kv.Secret) (bool, error) {
	segments, err := splitPath(path)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.root
	for _, seg := range segments {
		child, ok := n.children[seg]
		if !ok {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	n.secret = copySecret(secret)
	return true, nil
}

// Read returns a copy of the secret at path. A directory-only path (one
// with children but no secret of its own) reads the same as an absent path.
func (s *Store) Read(ctx context.Context, path string, opts ...kv.ReadOption) (kv.Secret, error) {
	o := kv.NewReadOptions(opts)

	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	n := s.lookup(segments)
	var secret kv.Secret
	if n != nil && n.secret != nil {
		secret = copySecret(n.secret)
	}
	s.mu.RUnlock()

	if secret == nil {
		nfErr := kv.NotFoundError{
			Path:    path,
			Message: "in-memory store holds no secret at " + path,
		}
		if fallback, ok := o.Recover(nfErr); ok {
			return fallback, nil
		}
		return nil, nfErr
	}
	return secret, nil
}

// Delete removes the secret at path, preserving any deeper paths. Deleting
// an absent secret is a successful no-op. Interior nodes left with neither
// a secret nor children are pruned so they stop appearing in listings.
func (s *Store) Delete(ctx context.Context, path string) (bool, error) {
	segments, err := splitPath(path)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleteLeaf(s.root, segments)
	return true, nil
}

// deleteLeaf clears the secret at the end of the segment chain and prunes
// nodes left with neither a secret nor children on the way back up.
func deleteLeaf(n *node, segments []string) {
	if len(segments) == 0 {
		n.secret = nil
		return
	}
	child, ok := n.children[segments[0]]
	if !ok {
		return
	}
	deleteLeaf(child, segments[1:])
	if child.secret == nil && len(child.children) == 0 {
		delete(n.children, segments[0])
	}
}

// List returns the immediate children of path in lexicographic order.
// Children holding only a secret are bare; children with descendants carry
// a trailing separator. A child that is both appears twice, once in each
// form, matching the live service's rendering.
func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	n := s.lookup(segments)
	var names []string
	if n != nil {
		for name, child := range n.children {
			if child.secret != nil {
				names = append(names, name)
			}
			if len(child.children) > 0 {
				names = append(names, name+kv.Separator)
			}
		}
	}
	s.mu.RUnlock()

	if len(names) == 0 {
		return nil, kv.NotFoundError{
			Path:    path,
			Message: "in-memory store holds no keys under " + path,
		}
	}
	sort.Strings(names)
	return names, nil
}

// lookup walks the segment chain; callers hold the lock.
func (s *Store) lookup(segments []string) *node {
	n := s.root
	for _, seg := range segments {
		child, ok := n.children[seg]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Fixture is the YAML shape accepted by SeedFromYAML: a flat mapping of
// paths to secrets.
type Fixture struct {
	Secrets map[string]map[string]any `yaml:"secrets"`
}

// SeedFromYAML populates the store from a fixture document, used by the
// offline CLI mode and by tests.
func (s *Store) SeedFromYAML(data []byte) error {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return err
	}
	for path, secret := range fixture.Secrets {
		if _, err := s.Write(context.Background(), path, kv.Secret(secret)); err != nil {
			return err
		}
	}
	return nil
}

// splitPath validates and segments a path. Leading and trailing separators
// are tolerated; interior empty segments are not.
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, kv.Separator)
	if trimmed == "" {
		return nil, kv.ValidationError{Message: "path must be a non-empty string"}
	}
	segments := strings.Split(trimmed, kv.Separator)
	for _, seg := range segments {
		if seg == "" {
			return nil, kv.ValidationError{Message: "path contains an empty segment: " + path}
		}
	}
	return segments, nil
}

func copySecret(secret kv.Secret) kv.Secret {
	if secret == nil {
		return kv.Secret{}
	}
	out := make(kv.Secret, len(secret))
	for k, v := range secret {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return v
	}
}
