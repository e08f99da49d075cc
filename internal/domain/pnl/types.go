// Package pnl provides the profit & loss reporting engine: period
// statements, multi-granularity breakdowns, performance rankings and
// period-over-period comparison. The engine is a pure reader of the
// transaction, catalog and expense stores; statements are derived, never
// persisted, and recomputed on every request.
package pnl

import (
	"barback/internal/core/id"
	"barback/internal/core/types"
	"barback/internal/domain/expense"
)

// PeriodStatement is one computed P&L statement for an inclusive date range.
//
// COGS uses the cost currently stored in the catalog, not a cost-at-sale
// snapshot, so figures for historical periods are approximate when costs
// changed after the sale.
type PeriodStatement struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Revenue     types.Money `json:"revenue"`
	COGS        types.Money `json:"cogs"`
	GrossProfit types.Money `json:"grossProfit"`
	GrossMargin float64     `json:"grossMargin"`

	OperatingExpenses expense.Buckets `json:"operatingExpenses"`

	NetIncome types.Money `json:"netIncome"`
	NetMargin float64     `json:"netMargin"`

	Transactions            int         `json:"transactions"`
	UnitsSold               int         `json:"unitsSold"`
	AverageTransactionValue types.Money `json:"averageTransactionValue"`

	// SkippedTransactionIDs lists transactions whose line items failed to
	// parse. Their totals still count toward revenue; their item-derived
	// figures (COGS, units) are missing from this statement.
	SkippedTransactionIDs []id.ID `json:"skippedTransactionIds,omitempty"`
}

// Breakdown is a multi-granularity collection of statements over one
// overall date range. Custom covers the raw, unpartitioned range.
type Breakdown struct {
	Daily     []PeriodStatement `json:"daily"`
	Weekly    []PeriodStatement `json:"weekly"`
	Monthly   []PeriodStatement `json:"monthly"`
	Quarterly []PeriodStatement `json:"quarterly"`
	Yearly    []PeriodStatement `json:"yearly"`
	Custom    PeriodStatement   `json:"custom"`
}

// Delta is an absolute and relative change between two periods.
type Delta struct {
	Amount     types.Money `json:"amount"`
	Percentage float64     `json:"percentage"`
}

// ComparisonDeltas captures period-over-period movement. Margin deltas are
// plain percentage-point differences, not percentage-of-percentage.
type ComparisonDeltas struct {
	Revenue     Delta `json:"revenue"`
	GrossProfit Delta `json:"grossProfit"`
	NetIncome   Delta `json:"netIncome"`

	GrossMarginPoints float64 `json:"grossMarginPoints"`
	NetMarginPoints   float64 `json:"netMarginPoints"`

	Transactions int `json:"transactions"`
	UnitsSold    int `json:"unitsSold"`
}

// CategoryPerformance ranks one product category within a date range.
type CategoryPerformance struct {
	Category     string      `json:"category"`
	Revenue      types.Money `json:"revenue"`
	COGS         types.Money `json:"cogs"`
	GrossProfit  types.Money `json:"grossProfit"`
	GrossMargin  float64     `json:"grossMargin"`
	UnitsSold    int         `json:"unitsSold"`
	Transactions int         `json:"transactions"`
}

// ProductPerformance ranks one product within a date range.
//
// InventoryTurnover divides units sold by the current on-hand quantity as
// a proxy for the historical average, a known approximation.
type ProductPerformance struct {
	UPC          string      `json:"upc"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Revenue      types.Money `json:"revenue"`
	COGS         types.Money `json:"cogs"`
	GrossProfit  types.Money `json:"grossProfit"`
	GrossMargin  float64     `json:"grossMargin"`
	UnitsSold    int         `json:"unitsSold"`
	Transactions int         `json:"transactions"`

	AverageSellingPrice types.Money `json:"averageSellingPrice"`
	InventoryTurnover   float64     `json:"inventoryTurnover"`
}
