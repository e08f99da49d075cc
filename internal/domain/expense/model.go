// Package expense provides manually recorded operating expenses and their
// rollup into reporting buckets.
package expense

import (
	"context"
	"time"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/core/types"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryLabor     Category = "labor"
	CategoryRent      Category = "rent"
	CategoryUtilities Category = "utilities"
	CategoryMarketing Category = "marketing"
	CategorySupplies  Category = "supplies"
	CategoryInsurance Category = "insurance"
	CategoryOther     Category = "other"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryLabor, CategoryRent, CategoryUtilities, CategoryMarketing,
		CategorySupplies, CategoryInsurance, CategoryOther:
		return true
	}
	return false
}

// Entry is a manually recorded operating expense. Entries are never
// auto-generated; the recurring flag only marks entries the operator
// re-enters on a schedule.
type Entry struct {
	ID          id.ID       `db:"id" json:"id"`
	Category    Category    `db:"category" json:"category"`
	Subcategory *string     `db:"subcategory" json:"subcategory,omitempty"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`
	ExpenseDate time.Time   `db:"expense_date" json:"expenseDate"`
	Recurring   bool        `db:"recurring" json:"recurring"`
	CreatedBy   *string     `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Validate checks invariants before persisting.
func (e *Entry) Validate(ctx context.Context) error {
	if !ValidCategory(e.Category) {
		return apperror.NewValidation("unknown expense category").
			WithDetail("field", "category").
			WithDetail("value", string(e.Category))
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if e.ExpenseDate.IsZero() {
		return apperror.NewValidation("expenseDate is required").
			WithDetail("field", "expenseDate")
	}
	return nil
}

// Buckets is the four-way rollup used by period statements. Marketing,
// supplies and insurance fold into Other, so Total always equals
// Labor+Rent+Utilities+Other.
type Buckets struct {
	Labor     types.Money `json:"labor"`
	Rent      types.Money `json:"rent"`
	Utilities types.Money `json:"utilities"`
	Other     types.Money `json:"other"`
	Total     types.Money `json:"total"`
}

// ZeroBuckets returns an all-zero rollup.
func ZeroBuckets() Buckets {
	z := types.Zero()
	return Buckets{Labor: z, Rent: z, Utilities: z, Other: z, Total: z}
}

// RollUp folds entries into reporting buckets.
func RollUp(entries []Entry) Buckets {
	b := ZeroBuckets()
	for _, e := range entries {
		switch e.Category {
		case CategoryLabor:
			b.Labor = b.Labor.Add(e.Amount)
		case CategoryRent:
			b.Rent = b.Rent.Add(e.Amount)
		case CategoryUtilities:
			b.Utilities = b.Utilities.Add(e.Amount)
		default:
			b.Other = b.Other.Add(e.Amount)
		}
		b.Total = b.Total.Add(e.Amount)
	}
	return b
}
