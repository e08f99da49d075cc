package till

import (
	"context"
	"time"

	"barback/internal/core/types"
)

// Repository is the till session store contract.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error

	// GetOpen returns the currently open session, or a NOT_FOUND AppError
	// when the drawer is closed.
	GetOpen(ctx context.Context) (*Session, error)
}

// CashLedger reports cash taken in over a time window. Satisfied by the
// transaction store: the drawer gains exactly the transaction total on a
// cash sale (tendered minus change).
type CashLedger interface {
	CashTotalBetween(ctx context.Context, from, to time.Time) (types.Money, error)
}
