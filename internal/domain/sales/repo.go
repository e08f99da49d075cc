package sales

import (
	"context"

	"barback/internal/core/id"
	"barback/internal/domain/period"
)

// Repository is the transaction store contract. Transactions are
// append-only; there is no update or single-row delete operation.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)

	// ListByDateRange returns transactions whose creation date falls within
	// the inclusive calendar range, ordered by creation time ascending.
	ListByDateRange(ctx context.Context, r period.Range) ([]Transaction, error)
}

// ReceiptArchive stores rendered receipts, zstd-compressed, keyed by
// transaction ID.
type ReceiptArchive interface {
	Save(ctx context.Context, txID id.ID, compressed []byte) error
	Get(ctx context.Context, txID id.ID) ([]byte, error)
}

// Invalidator is notified after any write that changes report inputs.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
