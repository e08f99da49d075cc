// Package till provides cash drawer session tracking: opening/closing
// denomination counts and expected-vs-counted variance.
package till

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/core/types"
)

// Denominations is a physical count of US cash in the drawer.
type Denominations struct {
	Pennies  int `json:"pennies"`
	Nickels  int `json:"nickels"`
	Dimes    int `json:"dimes"`
	Quarters int `json:"quarters"`
	Ones     int `json:"ones"`
	Fives    int `json:"fives"`
	Tens     int `json:"tens"`
	Twenties int `json:"twenties"`
	Fifties  int `json:"fifties"`
	Hundreds int `json:"hundreds"`
}

// Total converts the counts into a monetary value.
func (d Denominations) Total() types.Money {
	cents := int64(d.Pennies) +
		int64(d.Nickels)*5 +
		int64(d.Dimes)*10 +
		int64(d.Quarters)*25 +
		int64(d.Ones)*100 +
		int64(d.Fives)*500 +
		int64(d.Tens)*1000 +
		int64(d.Twenties)*2000 +
		int64(d.Fifties)*5000 +
		int64(d.Hundreds)*10000
	return decimal.New(cents, -2)
}

// Negative reports whether any count is below zero.
func (d Denominations) Negative() bool {
	for _, n := range []int{d.Pennies, d.Nickels, d.Dimes, d.Quarters, d.Ones,
		d.Fives, d.Tens, d.Twenties, d.Fifties, d.Hundreds} {
		if n < 0 {
			return true
		}
	}
	return false
}

// Session status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Session is one open-to-close cycle of the cash drawer.
type Session struct {
	ID            id.ID          `db:"id" json:"id"`
	OpenedBy      string         `db:"opened_by" json:"openedBy"`
	Status        string         `db:"status" json:"status"`
	OpeningCounts Denominations  `db:"opening_counts" json:"openingCounts"`
	OpeningTotal  types.Money    `db:"opening_total" json:"openingTotal"`
	ClosingCounts *Denominations `db:"closing_counts" json:"closingCounts,omitempty"`
	ClosingTotal  *types.Money   `db:"closing_total" json:"closingTotal,omitempty"`
	ExpectedCash  *types.Money   `db:"expected_cash" json:"expectedCash,omitempty"`
	Variance      *types.Money   `db:"variance" json:"variance,omitempty"`
	OpenedAt      time.Time      `db:"opened_at" json:"openedAt"`
	ClosedAt      *time.Time     `db:"closed_at" json:"closedAt,omitempty"`
}

// Validate checks invariants before persisting a new session.
func (s *Session) Validate(ctx context.Context) error {
	if s.OpenedBy == "" {
		return apperror.NewValidation("openedBy is required").WithDetail("field", "openedBy")
	}
	if s.OpeningCounts.Negative() {
		return apperror.NewValidation("denomination counts cannot be negative")
	}
	return nil
}
