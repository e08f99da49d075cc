// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// PercentOf returns part/whole*100 as float64, or 0 when whole is not
// positive. Report margins are defined as 0 for zero revenue, never NaN.
func PercentOf(part, whole Money) float64 {
	if !whole.IsPositive() {
		return 0
	}
	pct, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// SafeDiv returns num/den, or zero Money when den is zero.
func SafeDiv(num Money, den int64) Money {
	if den == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(den))
}
