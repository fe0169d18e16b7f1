// Package kv defines the contract for path-addressed KV v1 secret stores.
//
// A store holds opaque secrets (field-name to value mappings) at
// "/"-delimited paths and supports exactly four operations: List, Read,
// Write, and Delete. The package carries the Store interface, the typed
// error taxonomy shared by every backend, and the per-call Read options.
//
// # Backends
//
// vaultkv ships two implementations:
//
//   - internal/vaultapi talks to a live service over HTTP, handling auth
//     headers, redirects, envelope normalization, and error classification.
//   - internal/memstore keeps the tree in process memory for tests and
//     offline work.
//
// Code written against Store is portable between them. The only contractual
// difference is listing order: each backend is deterministic on its own,
// but the orders are not guaranteed to agree, so portable callers treat a
// listing as a set.
//
// # Error handling
//
// All failures are typed values: ValidationError and AuthError are raised
// locally before any backend work, APIError carries a classified service
// failure, NotFoundError marks an absent secret, and RedirectError marks an
// exhausted redirect budget. Match not-found with IsNotFound; backends word
// the error differently.
//
// A Read caller that prefers a default over an error passes WithFallback:
//
//	secret, err := store.Read(ctx, "app/config", kv.WithFallback(kv.Secret{
//	    "mode": "default",
//	}))
//
// The fallback absorbs not-found only; every other failure propagates.
package kv
