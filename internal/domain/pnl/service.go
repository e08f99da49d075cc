package pnl

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"barback/internal/core/id"
	"barback/internal/core/types"
	"barback/internal/domain/catalog/product"
	"barback/internal/domain/expense"
	"barback/internal/domain/period"
	"barback/internal/domain/sales"
	"barback/pkg/logger"
)

var tracer = otel.Tracer("barback/internal/domain/pnl")

// DefaultProductLimit caps product performance rankings when the caller
// does not ask for a specific size.
const DefaultProductLimit = 50

// uncategorized groups line items whose UPC has no catalog record.
const uncategorized = "uncategorized"

// ReportCache stores serialized breakdowns between requests. A nil cache
// means every report is recomputed from the stores.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Service computes P&L reports from the transaction, catalog and expense
// stores. It never writes to any of them.
type Service struct {
	transactions sales.Repository
	catalog      product.Repository
	expenses     expense.Repository
	cache        ReportCache
	cacheTTL     time.Duration
}

// NewService creates the reporting service. cache may be nil.
func NewService(
	transactions sales.Repository,
	catalog product.Repository,
	expenses expense.Repository,
	cache ReportCache,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		transactions: transactions,
		catalog:      catalog,
		expenses:     expenses,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// decodedTx pairs a stored transaction with its parsed line items.
// Items is nil when the payload failed the wire contract.
type decodedTx struct {
	tx    *sales.Transaction
	items []sales.LineItem
}

// loadSales fetches and decodes every transaction in the range, resolving
// catalog cost info for all referenced UPCs in one bulk call. Transactions
// with malformed items are kept (their totals still count) but carry nil
// items and are reported in skipped.
func (s *Service) loadSales(ctx context.Context, r period.Range) ([]decodedTx, map[string]product.CostInfo, []id.ID, error) {
	txs, err := s.transactions.ListByDateRange(ctx, r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list transactions: %w", err)
	}

	decoded := make([]decodedTx, 0, len(txs))
	var skipped []id.ID
	upcSet := make(map[string]struct{})

	for i := range txs {
		tx := &txs[i]
		items, err := tx.Items()
		if err != nil {
			logger.Warn(ctx, "skipping malformed line items",
				"transaction_id", tx.ID,
				"error", err,
			)
			skipped = append(skipped, tx.ID)
			decoded = append(decoded, decodedTx{tx: tx})
			continue
		}
		for _, it := range items {
			upcSet[it.UPC] = struct{}{}
		}
		decoded = append(decoded, decodedTx{tx: tx, items: items})
	}

	upcs := make([]string, 0, len(upcSet))
	for upc := range upcSet {
		upcs = append(upcs, upc)
	}
	costs := map[string]product.CostInfo{}
	if len(upcs) > 0 {
		costs, err = s.catalog.CostInfoByUPC(ctx, upcs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("resolve costs: %w", err)
		}
	}
	return decoded, costs, skipped, nil
}

// CalculatePnL computes one statement over the inclusive range. Reading
// the same store state twice yields the same statement.
func (s *Service) CalculatePnL(ctx context.Context, r period.Range) (*PeriodStatement, error) {
	ctx, span := tracer.Start(ctx, "pnl.CalculatePnL")
	defer span.End()
	span.SetAttributes(
		attribute.String("range.start", period.Format(r.Start)),
		attribute.String("range.end", period.Format(r.End)),
	)

	decoded, costs, skipped, err := s.loadSales(ctx, r)
	if err != nil {
		return nil, err
	}

	revenue := types.Zero()
	cogs := types.Zero()
	units := 0
	for _, d := range decoded {
		revenue = revenue.Add(d.tx.Total)
		for _, it := range d.items {
			units += it.Quantity
			// Missing cost records contribute zero, not an error.
			if info, ok := costs[it.UPC]; ok {
				cogs = cogs.Add(info.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
	}

	entries, err := s.expenses.ListByDateRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	buckets := expense.RollUp(entries)

	grossProfit := revenue.Sub(cogs)
	netIncome := grossProfit.Sub(buckets.Total)

	return &PeriodStatement{
		StartDate:               period.Format(r.Start),
		EndDate:                 period.Format(r.End),
		Revenue:                 revenue,
		COGS:                    cogs,
		GrossProfit:             grossProfit,
		GrossMargin:             types.PercentOf(grossProfit, revenue),
		OperatingExpenses:       buckets,
		NetIncome:               netIncome,
		NetMargin:               types.PercentOf(netIncome, revenue),
		Transactions:            len(decoded),
		UnitsSold:               units,
		AverageTransactionValue: types.SafeDiv(revenue, int64(len(decoded))),
		SkippedTransactionIDs:   skipped,
	}, nil
}

// GenerateBreakdown partitions the range at every granularity and computes
// a statement per sub-period, plus one custom statement over the raw
// range. Results are served from the cache when a fresh entry exists.
func (s *Service) GenerateBreakdown(ctx context.Context, r period.Range) (*Breakdown, error) {
	ctx, span := tracer.Start(ctx, "pnl.GenerateBreakdown")
	defer span.End()

	key := breakdownKey(r)
	if s.cache != nil {
		if payload, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn(ctx, "report cache read failed", "key", key, "error", err)
		} else if ok {
			var cached Breakdown
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
		}
	}

	b := &Breakdown{}
	fill := map[period.Granularity]*[]PeriodStatement{
		period.Daily:     &b.Daily,
		period.Weekly:    &b.Weekly,
		period.Monthly:   &b.Monthly,
		period.Quarterly: &b.Quarterly,
		period.Yearly:    &b.Yearly,
	}
	for _, g := range period.Granularities {
		ranges := period.Partition(g, r.Start, r.End)
		statements := make([]PeriodStatement, 0, len(ranges))
		for _, sub := range ranges {
			st, err := s.CalculatePnL(ctx, sub)
			if err != nil {
				return nil, err
			}
			statements = append(statements, *st)
		}
		*fill[g] = statements
	}

	custom, err := s.CalculatePnL(ctx, r)
	if err != nil {
		return nil, err
	}
	b.Custom = *custom

	if s.cache != nil {
		payload, err := json.Marshal(b)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				logger.Warn(ctx, "report cache write failed", "key", key, "error", err)
			}
		}
	}
	return b, nil
}

func breakdownKey(r period.Range) string {
	return fmt.Sprintf("report:breakdown:%s:%s", period.Format(r.Start), period.Format(r.End))
}

// Compare diffs two statements. Percentage changes use the previous value
// as denominator and are 0 when it is zero; net income uses the absolute
// previous value so a loss-to-profit swing keeps its sign. Margin deltas
// are percentage-point differences.
func Compare(current, previous *PeriodStatement) ComparisonDeltas {
	return ComparisonDeltas{
		Revenue:           deltaOf(current.Revenue, previous.Revenue),
		GrossProfit:       deltaOf(current.GrossProfit, previous.GrossProfit),
		NetIncome:         deltaOfSigned(current.NetIncome, previous.NetIncome),
		GrossMarginPoints: current.GrossMargin - previous.GrossMargin,
		NetMarginPoints:   current.NetMargin - previous.NetMargin,
		Transactions:      current.Transactions - previous.Transactions,
		UnitsSold:         current.UnitsSold - previous.UnitsSold,
	}
}

func deltaOf(curr, prev types.Money) Delta {
	diff := curr.Sub(prev)
	return Delta{Amount: diff, Percentage: types.PercentOf(diff, prev)}
}

func deltaOfSigned(curr, prev types.Money) Delta {
	diff := curr.Sub(prev)
	return Delta{Amount: diff, Percentage: types.PercentOf(diff, prev.Abs())}
}

// CategoryPerformance ranks categories by revenue over the range. Line
// items whose UPC has no catalog record fall under "uncategorized".
// filterExpr optionally narrows rows with a boolean expression; empty
// means no filtering.
func (s *Service) CategoryPerformance(ctx context.Context, r period.Range, filterExpr string) ([]CategoryPerformance, error) {
	ctx, span := tracer.Start(ctx, "pnl.CategoryPerformance")
	defer span.End()

	filter, err := compileOptionalFilter(filterExpr)
	if err != nil {
		return nil, err
	}

	decoded, costs, _, err := s.loadSales(ctx, r)
	if err != nil {
		return nil, err
	}

	type catAcc struct {
		revenue types.Money
		cogs    types.Money
		units   int
		txSeen  map[id.ID]struct{}
	}
	acc := make(map[string]*catAcc)

	for _, d := range decoded {
		for _, it := range d.items {
			category := uncategorized
			cost := types.Zero()
			if info, ok := costs[it.UPC]; ok {
				cost = info.Cost
				if info.Category != "" {
					category = info.Category
				}
			}
			a := acc[category]
			if a == nil {
				a = &catAcc{revenue: types.Zero(), cogs: types.Zero(), txSeen: map[id.ID]struct{}{}}
				acc[category] = a
			}
			a.revenue = a.revenue.Add(it.Total)
			a.cogs = a.cogs.Add(cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
			a.units += it.Quantity
			a.txSeen[d.tx.ID] = struct{}{}
		}
	}

	rows := make([]CategoryPerformance, 0, len(acc))
	for category, a := range acc {
		gross := a.revenue.Sub(a.cogs)
		row := CategoryPerformance{
			Category:     category,
			Revenue:      a.revenue,
			COGS:         a.cogs,
			GrossProfit:  gross,
			GrossMargin:  types.PercentOf(gross, a.revenue),
			UnitsSold:    a.units,
			Transactions: len(a.txSeen),
		}
		if filter != nil {
			ok, err := filter.Match(categoryRow(row))
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// ProductPerformance ranks products by revenue over the range, truncated
// to limit rows (DefaultProductLimit when limit <= 0). Filtering happens
// before truncation.
func (s *Service) ProductPerformance(ctx context.Context, r period.Range, limit int, filterExpr string) ([]ProductPerformance, error) {
	ctx, span := tracer.Start(ctx, "pnl.ProductPerformance")
	defer span.End()

	if limit <= 0 {
		limit = DefaultProductLimit
	}
	filter, err := compileOptionalFilter(filterExpr)
	if err != nil {
		return nil, err
	}

	decoded, costs, _, err := s.loadSales(ctx, r)
	if err != nil {
		return nil, err
	}

	type prodAcc struct {
		description string
		revenue     types.Money
		cogs        types.Money
		units       int
		txSeen      map[id.ID]struct{}
	}
	acc := make(map[string]*prodAcc)

	for _, d := range decoded {
		for _, it := range d.items {
			a := acc[it.UPC]
			if a == nil {
				a = &prodAcc{revenue: types.Zero(), cogs: types.Zero(), txSeen: map[id.ID]struct{}{}}
				acc[it.UPC] = a
			}
			// Last write wins; descriptions rarely change mid-range.
			a.description = it.Description
			a.revenue = a.revenue.Add(it.Total)
			if info, ok := costs[it.UPC]; ok {
				a.cogs = a.cogs.Add(info.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
			a.units += it.Quantity
			a.txSeen[d.tx.ID] = struct{}{}
		}
	}

	rows := make([]ProductPerformance, 0, len(acc))
	for upc, a := range acc {
		category := uncategorized
		turnover := 0.0
		if info, ok := costs[upc]; ok {
			if info.Category != "" {
				category = info.Category
			}
			if info.Quantity > 0 {
				turnover = float64(a.units) / float64(info.Quantity)
			}
		}
		gross := a.revenue.Sub(a.cogs)
		row := ProductPerformance{
			UPC:                 upc,
			Description:         a.description,
			Category:            category,
			Revenue:             a.revenue,
			COGS:                a.cogs,
			GrossProfit:         gross,
			GrossMargin:         types.PercentOf(gross, a.revenue),
			UnitsSold:           a.units,
			Transactions:        len(a.txSeen),
			AverageSellingPrice: types.SafeDiv(a.revenue, int64(a.units)),
			InventoryTurnover:   turnover,
		}
		if filter != nil {
			ok, err := filter.Match(productRow(row))
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].UPC < rows[j].UPC
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func compileOptionalFilter(expr string) (*RowFilter, error) {
	if expr == "" {
		return nil, nil
	}
	return NewRowFilter(expr)
}
