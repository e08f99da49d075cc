package expense

import (
	"context"

	"barback/internal/domain/period"
)

// Repository is the expense store contract.
type Repository interface {
	Create(ctx context.Context, e *Entry) error

	// ListByDateRange returns entries whose expense date falls within the
	// inclusive calendar range, ordered by expense date ascending.
	ListByDateRange(ctx context.Context, r period.Range) ([]Entry, error)
}

// Invalidator is notified after any write that changes report inputs.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
