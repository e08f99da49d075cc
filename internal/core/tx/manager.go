// Package tx defines the transaction management contract. Domain services
// depend on this interface; the pgx implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction: rollback when fn
// returns an error, commit otherwise. Nested calls reuse the transaction
// already carried by ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transaction support for query paths.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
