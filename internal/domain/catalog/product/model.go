// Package product provides the store catalog: one row per stocked item,
// keyed by UPC. Cost and price reflect the current values; historical
// aggregations use whatever cost is stored at query time.
package product

import (
	"context"
	"time"

	"barback/internal/core/apperror"
	"barback/internal/core/types"
)

// Product is a catalog item. Quantity is the current on-hand count.
type Product struct {
	UPC       string      `db:"upc" json:"upc"`
	Name      string      `db:"name" json:"name"`
	Category  string      `db:"category" json:"category"`
	Cost      types.Money `db:"cost" json:"cost"`
	Price     types.Money `db:"price" json:"price"`
	Quantity  int         `db:"quantity" json:"quantity"`
	Taxable   bool        `db:"taxable" json:"taxable"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// CostInfo is the slice of a product the aggregation engine needs.
type CostInfo struct {
	UPC      string      `db:"upc"`
	Category string      `db:"category"`
	Cost     types.Money `db:"cost"`
	Quantity int         `db:"quantity"`
}

// Validate checks invariants before persisting.
func (p *Product) Validate(ctx context.Context) error {
	if p.UPC == "" {
		return apperror.NewValidation("upc is required").WithDetail("field", "upc")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").WithDetail("field", "cost")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	return nil
}
