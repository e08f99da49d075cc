package product

import (
	"context"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// Repository is the inventory/cost store contract. The P&L engine is a
// pure reader of this store; the write operations serve catalog upkeep
// and the sale-recording path.
type Repository interface {
	GetByUPC(ctx context.Context, upc string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error

	// CostInfoByUPC bulk-resolves current cost, category and on-hand
	// quantity for the given UPCs. Unknown UPCs are simply absent from
	// the result; callers treat them as zero-cost.
	CostInfoByUPC(ctx context.Context, upcs []string) (map[string]CostInfo, error)

	// AdjustQuantity decrements (negative delta) or increments on-hand
	// quantity for a sold or restocked item.
	AdjustQuantity(ctx context.Context, upc string, delta int) error
}
