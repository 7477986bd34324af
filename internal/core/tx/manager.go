// Package tx provides transaction management abstractions.
// Interfaces here decouple domain logic from the storage implementation:
// services depend on Manager, the concrete unit of work lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested reuse.
//
// A nested call, one made while ctx already carries a transaction,
// runs inside the caller's transaction without committing or aborting
// it; the outermost caller owns the boundary. This is the mechanism
// that keeps multi-step mutations (deactivate old commissioning,
// insert new one, recompute product status) atomic.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for queries that don't modify data (better performance, no locks).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
