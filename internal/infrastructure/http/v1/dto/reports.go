package dto

import (
	"barback/internal/domain/pnl"
)

// PerformanceQuery narrows performance reports with an optional boolean
// filter expression.
type PerformanceQuery struct {
	DateRangeQuery
	Filter string `form:"filter"`
}

// ProductPerformanceQuery adds a row limit (default 50 when omitted).
type ProductPerformanceQuery struct {
	PerformanceQuery
	Limit int `form:"limit"`
}

// PeriodRequest names one inclusive date range in a compare request.
type PeriodRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// CompareRequest asks for deltas between two periods.
type CompareRequest struct {
	Current  PeriodRequest `json:"current" binding:"required"`
	Previous PeriodRequest `json:"previous" binding:"required"`
}

// CompareResponse returns both statements plus the deltas between them.
type CompareResponse struct {
	Current  *pnl.PeriodStatement `json:"current"`
	Previous *pnl.PeriodStatement `json:"previous"`
	Deltas   pnl.ComparisonDeltas `json:"deltas"`
}
