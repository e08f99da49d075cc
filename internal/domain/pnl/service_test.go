package pnl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/core/types"
	"barback/internal/domain/catalog/product"
	"barback/internal/domain/expense"
	"barback/internal/domain/period"
	"barback/internal/domain/sales"
)

// --- in-memory fakes ---

type fakeTxRepo struct {
	txs   []sales.Transaction
	lists int
}

func (f *fakeTxRepo) Create(ctx context.Context, t *sales.Transaction) error {
	f.txs = append(f.txs, *t)
	return nil
}

func (f *fakeTxRepo) GetByID(ctx context.Context, txID id.ID) (*sales.Transaction, error) {
	for i := range f.txs {
		if f.txs[i].ID == txID {
			return &f.txs[i], nil
		}
	}
	return nil, apperror.NewNotFound("transaction", txID)
}

func (f *fakeTxRepo) ListByDateRange(ctx context.Context, r period.Range) ([]sales.Transaction, error) {
	f.lists++
	var out []sales.Transaction
	for _, t := range f.txs {
		if r.Contains(t.CreatedAt) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	products map[string]product.Product
}

func (f *fakeCatalog) GetByUPC(ctx context.Context, upc string) (*product.Product, error) {
	p, ok := f.products[upc]
	if !ok {
		return nil, apperror.NewNotFound("product", upc)
	}
	return &p, nil
}

func (f *fakeCatalog) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) Create(ctx context.Context, p *product.Product) error {
	f.products[p.UPC] = *p
	return nil
}

func (f *fakeCatalog) Update(ctx context.Context, p *product.Product) error {
	f.products[p.UPC] = *p
	return nil
}

func (f *fakeCatalog) CostInfoByUPC(ctx context.Context, upcs []string) (map[string]product.CostInfo, error) {
	out := make(map[string]product.CostInfo)
	for _, upc := range upcs {
		if p, ok := f.products[upc]; ok {
			out[upc] = product.CostInfo{UPC: upc, Category: p.Category, Cost: p.Cost, Quantity: p.Quantity}
		}
	}
	return out, nil
}

func (f *fakeCatalog) AdjustQuantity(ctx context.Context, upc string, delta int) error {
	p := f.products[upc]
	p.Quantity += delta
	f.products[upc] = p
	return nil
}

type fakeExpenseRepo struct {
	entries []expense.Entry
}

func (f *fakeExpenseRepo) Create(ctx context.Context, e *expense.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeExpenseRepo) ListByDateRange(ctx context.Context, r period.Range) ([]expense.Entry, error) {
	var out []expense.Entry
	for _, e := range f.entries {
		if r.Contains(e.ExpenseDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, ok := f.data[key]
	if ok {
		f.hits++
	}
	return payload, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	f.sets++
	f.data[key] = payload
	return nil
}

// --- helpers ---

func day(s string) time.Time {
	t, err := period.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) period.Range {
	return period.Range{Start: day(start), End: day(end)}
}

func tx(t *testing.T, created string, total string, items []sales.LineItem) sales.Transaction {
	t.Helper()
	raw, err := sales.EncodeLineItems(items)
	require.NoError(t, err)
	return sales.Transaction{
		ID:          id.New(),
		RawItems:    raw,
		Total:       types.MustMoney(total),
		PaymentType: sales.PaymentCash,
		CreatedAt:   day(created).Add(14 * time.Hour),
	}
}

func item(upc, desc string, qty int, price, total string) sales.LineItem {
	return sales.LineItem{
		UPC:         upc,
		Description: desc,
		Quantity:    qty,
		Price:       types.MustMoney(price),
		Total:       types.MustMoney(total),
	}
}

func newTestService(txs *fakeTxRepo, catalog *fakeCatalog, expenses *fakeExpenseRepo, cache ReportCache) *Service {
	return NewService(txs, catalog, expenses, cache, time.Minute)
}

// --- tests ---

func TestCalculatePnL_SingleSale(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-15", "107.00", []sales.LineItem{
			item("0001", "Old Tom Gin 750ml", 2, "50.00", "100.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "gin", Cost: types.MustMoney("20.00"), Quantity: 10},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	st, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, "107", st.Revenue.String())
	assert.Equal(t, "40", st.COGS.String())
	assert.Equal(t, "67", st.GrossProfit.String())
	assert.InDelta(t, 62.62, st.GrossMargin, 0.01)
	assert.Equal(t, 1, st.Transactions)
	assert.Equal(t, 2, st.UnitsSold)
	assert.Equal(t, "107", st.AverageTransactionValue.String())
	assert.Empty(t, st.SkippedTransactionIDs)
}

func TestCalculatePnL_EmptyRange(t *testing.T) {
	svc := newTestService(&fakeTxRepo{}, &fakeCatalog{products: map[string]product.Product{}}, &fakeExpenseRepo{}, nil)

	st, err := svc.CalculatePnL(context.Background(), rng("2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	assert.True(t, st.Revenue.IsZero())
	assert.True(t, st.COGS.IsZero())
	assert.Zero(t, st.GrossMargin)
	assert.Zero(t, st.NetMargin)
	assert.True(t, st.AverageTransactionValue.IsZero())
	assert.Equal(t, 0, st.Transactions)
}

func TestCalculatePnL_ExpensesAndNetIncome(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-10", "200.00", []sales.LineItem{
			item("0001", "Rye 750ml", 4, "50.00", "200.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "whiskey", Cost: types.MustMoney("25.00"), Quantity: 20},
	}}
	expenses := &fakeExpenseRepo{entries: []expense.Entry{
		{Category: expense.CategoryLabor, Amount: types.MustMoney("30.00"), ExpenseDate: day("2024-03-11")},
		{Category: expense.CategoryRent, Amount: types.MustMoney("40.00"), ExpenseDate: day("2024-03-12")},
		{Category: expense.CategoryMarketing, Amount: types.MustMoney("10.00"), ExpenseDate: day("2024-03-13")},
		{Category: expense.CategoryInsurance, Amount: types.MustMoney("5.00"), ExpenseDate: day("2024-03-14")},
	}}
	svc := newTestService(txs, catalog, expenses, nil)

	st, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	// 200 - 100 cogs = 100 gross; 100 - 85 expenses = 15 net.
	assert.Equal(t, "100", st.GrossProfit.String())
	assert.Equal(t, "30", st.OperatingExpenses.Labor.String())
	assert.Equal(t, "40", st.OperatingExpenses.Rent.String())
	assert.Equal(t, "15", st.OperatingExpenses.Other.String())
	assert.Equal(t, "85", st.OperatingExpenses.Total.String())
	assert.Equal(t, "15", st.NetIncome.String())
	assert.InDelta(t, 7.5, st.NetMargin, 0.001)
}

func TestCalculatePnL_MalformedItemsSkippedAndReported(t *testing.T) {
	good := tx(t, "2024-03-05", "50.00", []sales.LineItem{
		item("0001", "Vodka 1L", 1, "50.00", "50.00"),
	})
	bad := sales.Transaction{
		ID:          id.New(),
		RawItems:    []byte(`[{"upc":"0002","quantity":"two"}]`),
		Total:       types.MustMoney("30.00"),
		PaymentType: sales.PaymentCash,
		CreatedAt:   day("2024-03-06").Add(10 * time.Hour),
	}
	txs := &fakeTxRepo{txs: []sales.Transaction{good, bad}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "vodka", Cost: types.MustMoney("18.00"), Quantity: 5},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	st, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	// The malformed transaction still contributes its total to revenue
	// and counts as a transaction; its item-derived figures are skipped.
	assert.Equal(t, "80", st.Revenue.String())
	assert.Equal(t, "18", st.COGS.String())
	assert.Equal(t, 2, st.Transactions)
	assert.Equal(t, 1, st.UnitsSold)
	require.Len(t, st.SkippedTransactionIDs, 1)
	assert.Equal(t, bad.ID, st.SkippedTransactionIDs[0])
}

func TestCalculatePnL_MissingCostRecordContributesZero(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "25.00", []sales.LineItem{
			item("9999", "Mystery bottle", 1, "25.00", "25.00"),
		}),
	}}
	svc := newTestService(txs, &fakeCatalog{products: map[string]product.Product{}}, &fakeExpenseRepo{}, nil)

	st, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, "25", st.Revenue.String())
	assert.True(t, st.COGS.IsZero())
	assert.Equal(t, 1, st.UnitsSold)
}

func TestCalculatePnL_Idempotent(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-15", "107.00", []sales.LineItem{
			item("0001", "Old Tom Gin 750ml", 2, "50.00", "100.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "gin", Cost: types.MustMoney("20.00"), Quantity: 10},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	first, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	second, err := svc.CalculatePnL(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateBreakdown(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "50.00", []sales.LineItem{
			item("0001", "Vodka 1L", 1, "50.00", "50.00"),
		}),
		tx(t, "2024-03-20", "50.00", []sales.LineItem{
			item("0001", "Vodka 1L", 1, "50.00", "50.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "vodka", Cost: types.MustMoney("18.00"), Quantity: 5},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	b, err := svc.GenerateBreakdown(context.Background(), rng("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	assert.Len(t, b.Daily, 31)
	assert.Len(t, b.Monthly, 1)
	assert.Len(t, b.Quarterly, 1)
	assert.Len(t, b.Yearly, 1)
	require.NotEmpty(t, b.Weekly)

	// Sub-period statements sum to the custom statement.
	sum := types.Zero()
	for _, st := range b.Daily {
		sum = sum.Add(st.Revenue)
	}
	assert.True(t, sum.Equal(b.Custom.Revenue))
	assert.Equal(t, "100", b.Custom.Revenue.String())
	assert.Equal(t, "2024-03-01", b.Custom.StartDate)
	assert.Equal(t, "2024-03-31", b.Custom.EndDate)
}

func TestGenerateBreakdown_CacheRoundTrip(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "50.00", []sales.LineItem{
			item("0001", "Vodka 1L", 1, "50.00", "50.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "vodka", Cost: types.MustMoney("18.00"), Quantity: 5},
	}}
	cache := newFakeCache()
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, cache)

	first, err := svc.GenerateBreakdown(context.Background(), rng("2024-03-01", "2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	listsAfterFirst := txs.lists

	second, err := svc.GenerateBreakdown(context.Background(), rng("2024-03-01", "2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, listsAfterFirst, txs.lists, "cached call must not hit the store")
	assert.True(t, first.Custom.Revenue.Equal(second.Custom.Revenue))
	assert.Equal(t, first.Custom.StartDate, second.Custom.StartDate)
	assert.Len(t, second.Daily, len(first.Daily))
}

func TestCompare_DenominatorRules(t *testing.T) {
	current := &PeriodStatement{
		Revenue:     types.MustMoney("150.00"),
		GrossProfit: types.MustMoney("90.00"),
		NetIncome:   types.MustMoney("20.00"),
		GrossMargin: 60.0,
		NetMargin:   13.33,
	}
	previous := &PeriodStatement{
		Revenue:     types.MustMoney("100.00"),
		GrossProfit: types.MustMoney("60.00"),
		NetIncome:   types.MustMoney("-10.00"),
		GrossMargin: 60.0,
		NetMargin:   -10.0,
	}

	d := Compare(current, previous)
	assert.Equal(t, "50", d.Revenue.Amount.String())
	assert.InDelta(t, 50.0, d.Revenue.Percentage, 0.001)
	assert.InDelta(t, 50.0, d.GrossProfit.Percentage, 0.001)
	// Net income climbed 30 against a 10 loss: +300% on the absolute base.
	assert.Equal(t, "30", d.NetIncome.Amount.String())
	assert.InDelta(t, 300.0, d.NetIncome.Percentage, 0.001)
	assert.InDelta(t, 0.0, d.GrossMarginPoints, 0.001)
	assert.InDelta(t, 23.33, d.NetMarginPoints, 0.001)
}

func TestCompare_ZeroPrevious(t *testing.T) {
	current := &PeriodStatement{
		Revenue:     types.MustMoney("150.00"),
		GrossProfit: types.MustMoney("90.00"),
		NetIncome:   types.MustMoney("20.00"),
	}
	previous := &PeriodStatement{
		Revenue:     types.Zero(),
		GrossProfit: types.Zero(),
		NetIncome:   types.Zero(),
	}

	d := Compare(current, previous)
	assert.Zero(t, d.Revenue.Percentage)
	assert.Zero(t, d.GrossProfit.Percentage)
	assert.Zero(t, d.NetIncome.Percentage)
	assert.Equal(t, "150", d.Revenue.Amount.String())
}

func TestCategoryPerformance(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "130.00", []sales.LineItem{
			item("0001", "Rye 750ml", 2, "50.00", "100.00"),
			item("0002", "Gin 750ml", 1, "30.00", "30.00"),
		}),
		tx(t, "2024-03-06", "50.00", []sales.LineItem{
			item("0001", "Rye 750ml", 1, "50.00", "50.00"),
		}),
		tx(t, "2024-03-07", "10.00", []sales.LineItem{
			item("9999", "Mystery bottle", 1, "10.00", "10.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "whiskey", Cost: types.MustMoney("25.00"), Quantity: 12},
		"0002": {UPC: "0002", Category: "gin", Cost: types.MustMoney("12.00"), Quantity: 6},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	rows, err := svc.CategoryPerformance(context.Background(), rng("2024-03-01", "2024-03-31"), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "whiskey", rows[0].Category)
	assert.Equal(t, "150", rows[0].Revenue.String())
	assert.Equal(t, "75", rows[0].COGS.String())
	assert.Equal(t, 3, rows[0].UnitsSold)
	assert.Equal(t, 2, rows[0].Transactions)
	assert.InDelta(t, 50.0, rows[0].GrossMargin, 0.001)

	assert.Equal(t, "gin", rows[1].Category)
	assert.Equal(t, "uncategorized", rows[2].Category)
	assert.True(t, rows[2].COGS.IsZero())
}

func TestCategoryPerformance_Filter(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "130.00", []sales.LineItem{
			item("0001", "Rye 750ml", 2, "50.00", "100.00"),
			item("0002", "Gin 750ml", 1, "30.00", "30.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "whiskey", Cost: types.MustMoney("25.00"), Quantity: 12},
		"0002": {UPC: "0002", Category: "gin", Cost: types.MustMoney("12.00"), Quantity: 6},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	rows, err := svc.CategoryPerformance(context.Background(),
		rng("2024-03-01", "2024-03-31"), `category == "whiskey" && revenue > 50.0`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "whiskey", rows[0].Category)
}

func TestCategoryPerformance_InvalidFilter(t *testing.T) {
	svc := newTestService(&fakeTxRepo{}, &fakeCatalog{products: map[string]product.Product{}}, &fakeExpenseRepo{}, nil)

	_, err := svc.CategoryPerformance(context.Background(), rng("2024-03-01", "2024-03-31"), `revenue >`)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestProductPerformance(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "160.00", []sales.LineItem{
			item("0001", "Rye 750ml", 2, "50.00", "100.00"),
			item("0002", "Gin 750ml", 2, "30.00", "60.00"),
		}),
		tx(t, "2024-03-06", "60.00", []sales.LineItem{
			item("0002", "Gin 750ml", 2, "30.00", "60.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "whiskey", Cost: types.MustMoney("25.00"), Quantity: 8},
		"0002": {UPC: "0002", Category: "gin", Cost: types.MustMoney("12.00"), Quantity: 2},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	rows, err := svc.ProductPerformance(context.Background(), rng("2024-03-01", "2024-03-31"), 0, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	gin := rows[0]
	assert.Equal(t, "0002", gin.UPC)
	assert.Equal(t, "120", gin.Revenue.String())
	assert.Equal(t, 4, gin.UnitsSold)
	assert.Equal(t, 2, gin.Transactions)
	assert.Equal(t, "30", gin.AverageSellingPrice.String())
	// 4 units sold over 2 on hand.
	assert.InDelta(t, 2.0, gin.InventoryTurnover, 0.001)

	rye := rows[1]
	assert.Equal(t, "0001", rye.UPC)
	assert.InDelta(t, 0.25, rye.InventoryTurnover, 0.001)
}

func TestProductPerformance_Limit(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "60.00", []sales.LineItem{
			item("0001", "A", 1, "30.00", "30.00"),
			item("0002", "B", 1, "20.00", "20.00"),
			item("0003", "C", 1, "10.00", "10.00"),
		}),
	}}
	svc := newTestService(txs, &fakeCatalog{products: map[string]product.Product{}}, &fakeExpenseRepo{}, nil)

	rows, err := svc.ProductPerformance(context.Background(), rng("2024-03-01", "2024-03-31"), 2, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0001", rows[0].UPC)
	assert.Equal(t, "0002", rows[1].UPC)
}

func TestProductPerformance_ZeroOnHandTurnover(t *testing.T) {
	txs := &fakeTxRepo{txs: []sales.Transaction{
		tx(t, "2024-03-05", "30.00", []sales.LineItem{
			item("0001", "Rye 750ml", 1, "30.00", "30.00"),
		}),
	}}
	catalog := &fakeCatalog{products: map[string]product.Product{
		"0001": {UPC: "0001", Category: "whiskey", Cost: types.MustMoney("25.00"), Quantity: 0},
	}}
	svc := newTestService(txs, catalog, &fakeExpenseRepo{}, nil)

	rows, err := svc.ProductPerformance(context.Background(), rng("2024-03-01", "2024-03-31"), 0, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].InventoryTurnover)
}
