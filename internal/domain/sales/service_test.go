package sales

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
	"barback/internal/domain/period"
)

// --- in-memory fakes ---

type fakeRepo struct {
	txs []Transaction
}

func (f *fakeRepo) Create(ctx context.Context, t *Transaction) error {
	f.txs = append(f.txs, *t)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	for i := range f.txs {
		if f.txs[i].ID == txID {
			return &f.txs[i], nil
		}
	}
	return nil, apperror.NewNotFound("transaction", txID)
}

func (f *fakeRepo) ListByDateRange(ctx context.Context, r period.Range) ([]Transaction, error) {
	var out []Transaction
	for _, t := range f.txs {
		if r.Contains(t.CreatedAt) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeProducts struct {
	products map[string]product.Product
}

func (f *fakeProducts) GetByUPC(ctx context.Context, upc string) (*product.Product, error) {
	p, ok := f.products[upc]
	if !ok {
		return nil, apperror.NewNotFound("product", upc)
	}
	return &p, nil
}

func (f *fakeProducts) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Create(ctx context.Context, p *product.Product) error {
	f.products[p.UPC] = *p
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p *product.Product) error {
	f.products[p.UPC] = *p
	return nil
}

func (f *fakeProducts) CostInfoByUPC(ctx context.Context, upcs []string) (map[string]product.CostInfo, error) {
	out := make(map[string]product.CostInfo)
	for _, upc := range upcs {
		if p, ok := f.products[upc]; ok {
			out[upc] = product.CostInfo{UPC: upc, Category: p.Category, Cost: p.Cost, Quantity: p.Quantity}
		}
	}
	return out, nil
}

func (f *fakeProducts) AdjustQuantity(ctx context.Context, upc string, delta int) error {
	p, ok := f.products[upc]
	if !ok {
		return apperror.NewNotFound("product", upc)
	}
	p.Quantity += delta
	f.products[upc] = p
	return nil
}

type fakeArchive struct {
	saved map[id.ID][]byte
}

func (f *fakeArchive) Save(ctx context.Context, txID id.ID, compressed []byte) error {
	if f.saved == nil {
		f.saved = make(map[id.ID][]byte)
	}
	f.saved[txID] = compressed
	return nil
}

func (f *fakeArchive) Get(ctx context.Context, txID id.ID) ([]byte, error) {
	payload, ok := f.saved[txID]
	if !ok {
		return nil, apperror.NewNotFound("receipt", txID)
	}
	return payload, nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func testCatalog() *fakeProducts {
	return &fakeProducts{products: map[string]product.Product{
		"upc-bourbon": {UPC: "upc-bourbon", Name: "Bourbon 750ml", Category: "whiskey",
			Cost: types.NewMoney(14), Price: types.NewMoney(25), Quantity: 10, Taxable: true},
		"upc-soda": {UPC: "upc-soda", Name: "Club Soda 1L", Category: "mixers",
			Cost: types.NewMoney(0.70), Price: types.NewMoney(2), Quantity: 50, Taxable: false},
	}}
}

func newTestService(t *testing.T, repo *fakeRepo, catalog *fakeProducts, archive *fakeArchive, inv *fakeInvalidator) *Service {
	t.Helper()
	var archiveArg ReceiptArchive
	if archive != nil {
		archiveArg = archive
	}
	var invArg Invalidator
	if inv != nil {
		invArg = inv
	}
	svc, err := NewService(repo, catalog, archiveArg, invArg, nil, Config{
		TaxRate:   types.NewMoney(0.07),
		StoreName: "Test Liquors",
	})
	require.NoError(t, err)
	return svc
}

func TestRecordSale_CashSale(t *testing.T) {
	repo := &fakeRepo{}
	catalog := testCatalog()
	archive := &fakeArchive{}
	inv := &fakeInvalidator{}
	svc := newTestService(t, repo, catalog, archive, inv)

	tendered := types.NewMoney(60)
	tx, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:        []CartLine{{UPC: "upc-bourbon", Quantity: 2}},
		PaymentType:  PaymentCash,
		CashTendered: &tendered,
		CreatedBy:    "mia",
	})
	require.NoError(t, err)

	// 2 x 25.00 = 50.00, 7% tax = 3.50
	assert.True(t, tx.Subtotal.Equal(types.NewMoney(50)), "subtotal %s", tx.Subtotal)
	assert.True(t, tx.Tax.Equal(types.NewMoney(3.50)), "tax %s", tx.Tax)
	assert.True(t, tx.Total.Equal(types.NewMoney(53.50)), "total %s", tx.Total)
	require.NotNil(t, tx.ChangeGiven)
	assert.True(t, tx.ChangeGiven.Equal(types.NewMoney(6.50)), "change %s", tx.ChangeGiven)

	require.Len(t, repo.txs, 1)
	assert.Equal(t, 8, catalog.products["upc-bourbon"].Quantity)
	assert.Len(t, archive.saved, 1)
	assert.Equal(t, 1, inv.calls)

	items, err := tx.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bourbon 750ml", items[0].Description)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRecordSale_NonTaxableLineSkipsTax(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, testCatalog(), nil, nil)

	tx, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 3}},
		PaymentType: PaymentDebit,
	})
	require.NoError(t, err)

	assert.True(t, tx.Subtotal.Equal(types.NewMoney(6)))
	assert.True(t, tx.Tax.IsZero(), "tax %s", tx.Tax)
	assert.True(t, tx.Total.Equal(types.NewMoney(6)))
	assert.Nil(t, tx.CashTendered)
	assert.Nil(t, tx.ChangeGiven)
}

func TestRecordSale_AnonymousCreator(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, testCatalog(), nil, nil)

	// Creator identity is optional; an anonymous sale persists with no
	// created_by value rather than an empty string.
	tx, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 1}},
		PaymentType: PaymentCredit,
	})
	require.NoError(t, err)
	assert.Nil(t, tx.CreatedBy)
	require.Len(t, repo.txs, 1)
	assert.Nil(t, repo.txs[0].CreatedBy)

	named, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 1}},
		PaymentType: PaymentCredit,
		CreatedBy:   "mia",
	})
	require.NoError(t, err)
	require.NotNil(t, named.CreatedBy)
	assert.Equal(t, "mia", *named.CreatedBy)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	repo := &fakeRepo{}
	catalog := testCatalog()
	svc := newTestService(t, repo, catalog, nil, nil)

	_, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-bourbon", Quantity: 11}},
		PaymentType: PaymentCredit,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Empty(t, repo.txs)
	assert.Equal(t, 10, catalog.products["upc-bourbon"].Quantity)
}

func TestRecordSale_CashRequiresTendered(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, testCatalog(), nil, nil)

	_, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 1}},
		PaymentType: PaymentCash,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordSale_TenderedBelowTotal(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, testCatalog(), nil, nil)

	tendered := types.NewMoney(1)
	_, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:        []CartLine{{UPC: "upc-soda", Quantity: 1}},
		PaymentType:  PaymentCash,
		CashTendered: &tendered,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRecordSale_RejectsBadInput(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, testCatalog(), nil, nil)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, SaleInput{PaymentType: PaymentCash})
	require.Error(t, err, "empty cart")

	_, err = svc.RecordSale(ctx, SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 1}},
		PaymentType: PaymentType("check"),
	})
	require.Error(t, err, "unknown tender")

	_, err = svc.RecordSale(ctx, SaleInput{
		Lines:       []CartLine{{UPC: "upc-soda", Quantity: 0}},
		PaymentType: PaymentDebit,
	})
	require.Error(t, err, "zero quantity")
}

func TestReceipt_RoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	archive := &fakeArchive{}
	svc := newTestService(t, repo, testCatalog(), archive, nil)

	tx, err := svc.RecordSale(context.Background(), SaleInput{
		Lines:       []CartLine{{UPC: "upc-bourbon", Quantity: 1}},
		PaymentType: PaymentCredit,
	})
	require.NoError(t, err)

	text, err := svc.Receipt(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "Test Liquors")
	assert.Contains(t, text, "Bourbon 750ml")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, tx.Total.StringFixed(2))
}

func TestReceipt_NotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, testCatalog(), &fakeArchive{}, nil)

	_, err := svc.Receipt(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDecodeLineItems(t *testing.T) {
	valid := []byte(`[{"upc":"u1","description":"Gin","quantity":2,"price":"18.99","total":"37.98"}]`)
	items, err := DecodeLineItems(valid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0].UPC)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Total.Equal(types.NewMoney(37.98)))

	cases := map[string][]byte{
		"empty payload":    nil,
		"not an array":     []byte(`{"upc":"u1"}`),
		"missing upc":      []byte(`[{"description":"Gin","quantity":1,"price":"1","total":"1"}]`),
		"blank upc":        []byte(`[{"upc":"","description":"Gin","quantity":1,"price":"1","total":"1"}]`),
		"missing quantity": []byte(`[{"upc":"u1","description":"Gin","price":"1","total":"1"}]`),
		"zero quantity":    []byte(`[{"upc":"u1","description":"Gin","quantity":0,"price":"1","total":"1"}]`),
		"missing price":    []byte(`[{"upc":"u1","description":"Gin","quantity":1,"total":"1"}]`),
		"negative price":   []byte(`[{"upc":"u1","description":"Gin","quantity":1,"price":"-1","total":"1"}]`),
		"missing total":    []byte(`[{"upc":"u1","description":"Gin","quantity":1,"price":"1"}]`),
	}
	for name, payload := range cases {
		_, err := DecodeLineItems(payload)
		assert.Error(t, err, name)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	items := []LineItem{
		{UPC: "u1", Description: "Gin", Quantity: 2, Price: types.NewMoney(18.99), Total: types.NewMoney(37.98)},
		{UPC: "u2", Description: "Soda", Quantity: 1, Price: types.NewMoney(1.99), Total: types.NewMoney(1.99)},
	}
	raw, err := EncodeLineItems(items)
	require.NoError(t, err)

	decoded, err := DecodeLineItems(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, items[0].UPC, decoded[0].UPC)
	assert.True(t, decoded[1].Price.Equal(items[1].Price))
}

func TestListByDateRange_UsesCalendarRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, testCatalog(), nil, nil)

	inside := Transaction{ID: id.New(), CreatedAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	outside := Transaction{ID: id.New(), CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
	repo.txs = append(repo.txs, inside, outside)

	r, err := period.ParseRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)

	txs, err := svc.ListByDateRange(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, inside.ID, txs[0].ID)
}
