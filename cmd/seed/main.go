// Package main provides a CLI tool for seeding the database with demo data:
// a small liquor catalog, a week of sales and the recurring monthly expenses.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"barback/internal/config"
	"barback/internal/core/types"
	"barback/internal/domain/catalog/product"
	"barback/internal/domain/expense"
	"barback/internal/domain/sales"
	"barback/internal/infrastructure/storage/postgres"
	"barback/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	productRepo := postgres.NewProductRepo(txm)
	salesRepo := postgres.NewSalesRepo(txm)
	receiptRepo := postgres.NewReceiptRepo(txm)
	expenseRepo := postgres.NewExpenseRepo(txm)

	productService := product.NewService(productRepo)
	salesService, err := sales.NewService(salesRepo, productRepo, receiptRepo, nil, txm, sales.Config{
		TaxRate:      cfg.Store.TaxRate,
		StoreName:    cfg.Store.Name,
		StoreAddress: cfg.Store.Address,
	})
	if err != nil {
		log.Fatalw("failed to create sales service", "error", err)
	}
	expenseService := expense.NewService(expenseRepo, nil)

	if err := seedCatalog(ctx, productService, log); err != nil {
		log.Fatalw("failed to seed catalog", "error", err)
	}
	if err := seedExpenses(ctx, expenseService, log); err != nil {
		log.Fatalw("failed to seed expenses", "error", err)
	}
	if os.Getenv("SEED_DEMO_SALES") != "false" {
		if err := seedSales(ctx, salesService, log); err != nil {
			log.Fatalw("failed to seed sales", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

var catalog = []product.Product{
	{UPC: "081234567801", Name: "Old Fitz Bourbon 750ml", Category: "whiskey", Cost: types.NewMoney(14.50), Price: types.NewMoney(24.99), Quantity: 48, Taxable: true},
	{UPC: "081234567802", Name: "Rye Creek Small Batch 750ml", Category: "whiskey", Cost: types.NewMoney(19.00), Price: types.NewMoney(32.99), Quantity: 24, Taxable: true},
	{UPC: "081234567803", Name: "Silver Agave Tequila 750ml", Category: "tequila", Cost: types.NewMoney(12.25), Price: types.NewMoney(21.99), Quantity: 36, Taxable: true},
	{UPC: "081234567804", Name: "Juniper Hill Gin 750ml", Category: "gin", Cost: types.NewMoney(10.80), Price: types.NewMoney(18.99), Quantity: 30, Taxable: true},
	{UPC: "081234567805", Name: "Coastal Vodka 1.75L", Category: "vodka", Cost: types.NewMoney(11.40), Price: types.NewMoney(19.99), Quantity: 60, Taxable: true},
	{UPC: "081234567806", Name: "Harbor Lager 6pk", Category: "beer", Cost: types.NewMoney(5.10), Price: types.NewMoney(9.49), Quantity: 120, Taxable: true},
	{UPC: "081234567807", Name: "Ridgeline IPA 6pk", Category: "beer", Cost: types.NewMoney(6.25), Price: types.NewMoney(11.49), Quantity: 96, Taxable: true},
	{UPC: "081234567808", Name: "Valley Red Blend 750ml", Category: "wine", Cost: types.NewMoney(6.75), Price: types.NewMoney(13.99), Quantity: 72, Taxable: true},
	{UPC: "081234567809", Name: "Dry Coast Sauv Blanc 750ml", Category: "wine", Cost: types.NewMoney(7.20), Price: types.NewMoney(14.99), Quantity: 54, Taxable: true},
	{UPC: "081234567810", Name: "Club Soda 1L", Category: "mixers", Cost: types.NewMoney(0.70), Price: types.NewMoney(1.99), Quantity: 80, Taxable: false},
}

func seedCatalog(ctx context.Context, svc *product.Service, log *logger.Logger) error {
	for i := range catalog {
		p := catalog[i]
		if _, err := svc.Get(ctx, p.UPC); err == nil {
			continue
		}
		if err := svc.Create(ctx, &p); err != nil {
			return fmt.Errorf("create %s: %w", p.UPC, err)
		}
	}
	log.Infow("catalog seeded", "products", len(catalog))
	return nil
}

func seedExpenses(ctx context.Context, svc *expense.Service, log *logger.Logger) error {
	firstOfMonth := time.Now().UTC().AddDate(0, 0, -time.Now().UTC().Day()+1)
	entries := []expense.Entry{
		{Category: expense.CategoryRent, Amount: types.NewMoney(3800), Description: "storefront lease", ExpenseDate: firstOfMonth, Recurring: true},
		{Category: expense.CategoryLabor, Amount: types.NewMoney(5200), Description: "payroll", ExpenseDate: firstOfMonth.AddDate(0, 0, 13), Recurring: true},
		{Category: expense.CategoryUtilities, Amount: types.NewMoney(640), Description: "electric and water", ExpenseDate: firstOfMonth.AddDate(0, 0, 4), Recurring: true},
		{Category: expense.CategoryInsurance, Amount: types.NewMoney(410), Description: "liquor liability policy", ExpenseDate: firstOfMonth.AddDate(0, 0, 2), Recurring: true},
		{Category: expense.CategorySupplies, Amount: types.NewMoney(95.40), Description: "bags and register tape", ExpenseDate: firstOfMonth.AddDate(0, 0, 7)},
	}
	for i := range entries {
		if err := svc.Add(ctx, &entries[i]); err != nil {
			return fmt.Errorf("add expense %q: %w", entries[i].Description, err)
		}
	}
	log.Infow("expenses seeded", "entries", len(entries))
	return nil
}

func seedSales(ctx context.Context, svc *sales.Service, log *logger.Logger) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	tenders := []sales.PaymentType{sales.PaymentCash, sales.PaymentDebit, sales.PaymentCredit}

	count := 0
	for i := 0; i < 40; i++ {
		lines := []sales.CartLine{
			{UPC: catalog[rng.Intn(len(catalog))].UPC, Quantity: 1 + rng.Intn(2)},
		}
		if rng.Intn(2) == 0 {
			lines = append(lines, sales.CartLine{UPC: catalog[rng.Intn(len(catalog))].UPC, Quantity: 1})
		}

		input := sales.SaleInput{
			Lines:       lines,
			PaymentType: tenders[rng.Intn(len(tenders))],
			CreatedBy:   "seed",
		}
		if input.PaymentType == sales.PaymentCash {
			tendered := types.NewMoney(100)
			input.CashTendered = &tendered
		}

		if _, err := svc.RecordSale(ctx, input); err != nil {
			return fmt.Errorf("record sale %d: %w", i, err)
		}
		count++
	}
	log.Infow("sales seeded", "transactions", count)
	return nil
}
