package kv

import (
	"context"
	"testing"
)

// ContractTest drives the shared conformance suite that every Store
// implementation must pass. Backends plug in a constructor and run
// RunContractTests from their own test files.
type ContractTest struct {
	// CreateStore returns a fresh, empty store for each subtest.
	CreateStore func(t *testing.T) Store
}

// RunContractTests exercises the behavior the Store contract promises
// independently of backend: round-trips, not-found semantics, fallback
// recovery, delete idempotency, and listing membership. Listing order is
// deliberately not asserted here; it is backend-specific.
func RunContractTests(t *testing.T, contract ContractTest) {
	t.Run("Contract", func(t *testing.T) {
		t.Run("WriteReadRoundTrip", func(t *testing.T) {
			testWriteReadRoundTrip(t, contract)
		})
		t.Run("ReadNotFound", func(t *testing.T) {
			testReadNotFound(t, contract)
		})
		t.Run("ReadFallback", func(t *testing.T) {
			testReadFallback(t, contract)
		})
		t.Run("ReadDirectoryOnlyPath", func(t *testing.T) {
			testReadDirectoryOnlyPath(t, contract)
		})
		t.Run("DeleteAbsent", func(t *testing.T) {
			testDeleteAbsent(t, contract)
		})
		t.Run("WriteDeleteRead", func(t *testing.T) {
			testWriteDeleteRead(t, contract)
		})
		t.Run("ListMembership", func(t *testing.T) {
			testListMembership(t, contract)
		})
		t.Run("ListNotFound", func(t *testing.T) {
			testListNotFound(t, contract)
		})
	})
}

func testWriteReadRoundTrip(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)
	ctx := context.Background()

	// Field names mix separators on purpose: they must come back verbatim.
	in := Secret{
		"api_key":    "xyz",
		"retry-max":  float64(3),
		"enabled":    true,
		"endpoints":  []any{"a", "b"},
		"nested_map": map[string]any{"inner-field": "v"},
	}

	ok, err := store.Write(ctx, "kv/app/creds", in)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !ok {
		t.Fatal("Write returned false")
	}

	out, err := store.Read(ctx, "kv/app/creds")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	assertSecretEqual(t, in, out)
}

func testReadNotFound(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)

	_, err := store.Read(context.Background(), "kv/never/written")
	if err == nil {
		t.Fatal("Read of absent path succeeded")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func testReadFallback(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)
	fallback := Secret{"mode": "default"}

	out, err := store.Read(context.Background(), "kv/never/written", WithFallback(fallback))
	if err != nil {
		t.Fatalf("Read with fallback failed: %v", err)
	}
	assertSecretEqual(t, fallback, out)
}

func testReadDirectoryOnlyPath(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)
	ctx := context.Background()

	if _, err := store.Write(ctx, "kv/dir/leaf", Secret{"k": "v"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// "kv/dir" has a child but no secret of its own.
	_, err := store.Read(ctx, "kv/dir")
	if !IsNotFound(err) {
		t.Fatalf("Read of directory-only path: expected not-found, got %v", err)
	}
}

func testDeleteAbsent(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)

	ok, err := store.Delete(context.Background(), "kv/never/written")
	if err != nil {
		t.Fatalf("Delete of absent path failed: %v", err)
	}
	if !ok {
		t.Fatal("Delete of absent path returned false")
	}
}

func testWriteDeleteRead(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)
	ctx := context.Background()

	if _, err := store.Write(ctx, "kv/tmp", Secret{"k": "v"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	ok, err := store.Delete(ctx, "kv/tmp")
	if err != nil || !ok {
		t.Fatalf("Delete failed: ok=%v err=%v", ok, err)
	}
	if _, err := store.Read(ctx, "kv/tmp"); !IsNotFound(err) {
		t.Fatalf("Read after delete: expected not-found, got %v", err)
	}
}

func testListMembership(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)
	ctx := context.Background()

	seed := map[string]Secret{
		"kv/foo/abc":     {"key": "xyz"},
		"kv/foo/bar/baz": {"alpha": true, "beta": float64(123)},
		"kv/foo/qux/def": {"one": "two", "three": []any{"four"}},
	}
	for path, secret := range seed {
		if _, err := store.Write(ctx, path, secret); err != nil {
			t.Fatalf("Write %s failed: %v", path, err)
		}
	}

	names, err := store.List(ctx, "kv/foo")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	got := make(map[string]bool, len(names))
	for _, n := range names {
		got[n] = true
	}
	want := []string{"abc", "bar/", "qux/"}
	if len(names) != len(want) {
		t.Fatalf("List returned %v, want the three entries %v", names, want)
	}
	for _, n := range want {
		if !got[n] {
			t.Errorf("List is missing %q: got %v", n, names)
		}
	}
	// Grandchildren must never leak into a listing.
	if got["bar/baz"] || got["qux/def"] {
		t.Errorf("List leaked grandchildren: %v", names)
	}
}

func testListNotFound(t *testing.T, contract ContractTest) {
	store := contract.CreateStore(t)

	_, err := store.List(context.Background(), "kv/never/written")
	if err == nil {
		t.Fatal("List of absent path succeeded")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

// assertSecretEqual does a deep comparison over JSON-shaped values.
func assertSecretEqual(t *testing.T, want, got Secret) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("secret mismatch: want %v, got %v", want, got)
	}
	for k, wv := range want {
		gv, ok := got[k]
		if !ok {
			t.Fatalf("secret is missing field %q: got %v", k, got)
		}
		if !valueEqual(wv, gv) {
			t.Fatalf("field %q mismatch: want %#v, got %#v", k, wv, gv)
		}
	}
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !valueEqual(v, bv[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
