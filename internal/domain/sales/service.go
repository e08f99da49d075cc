package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	coretx "barback/internal/core/tx"
	"barback/internal/core/types"
	"barback/internal/domain/catalog/product"
	"barback/internal/domain/period"
	"barback/pkg/logger"
)

// CartLine is one scanned item at the register.
type CartLine struct {
	UPC      string
	Quantity int
}

// SaleInput is a completed cart ready to be recorded.
type SaleInput struct {
	Lines        []CartLine
	PaymentType  PaymentType
	CashTendered *types.Money
	CreatedBy    string
}

// Config holds sale recording configuration.
type Config struct {
	// TaxRate applied to taxable items, e.g. 0.07 for 7%.
	TaxRate types.Money

	// StoreName and StoreAddress appear on receipts.
	StoreName    string
	StoreAddress string
}

// Service records sales and serves transaction lookups.
type Service struct {
	repo       Repository
	products   product.Repository
	archive    ReceiptArchive
	receipts   *ReceiptPrinter
	invalidate Invalidator
	txm        coretx.Manager
	cfg        Config
}

// NewService creates a new sales service. txm may be nil, in which case
// writes run without an enclosing transaction (in-memory stores, tests).
func NewService(repo Repository, products product.Repository, archive ReceiptArchive, invalidate Invalidator, txm coretx.Manager, cfg Config) (*Service, error) {
	printer, err := NewReceiptPrinter(cfg.StoreName, cfg.StoreAddress)
	if err != nil {
		return nil, fmt.Errorf("create receipt printer: %w", err)
	}
	return &Service{
		repo:       repo,
		products:   products,
		archive:    archive,
		receipts:   printer,
		invalidate: invalidate,
		txm:        txm,
		cfg:        cfg,
	}, nil
}

// RecordSale validates the cart against the catalog, prices it, persists
// the transaction with its serialized line items, decrements stock and
// archives the rendered receipt. The transaction is immutable once written.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) (*Transaction, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidation("sale requires at least one line")
	}
	if !ValidPaymentType(input.PaymentType) {
		return nil, apperror.NewValidation("unknown payment type").
			WithDetail("paymentType", string(input.PaymentType))
	}

	items := make([]LineItem, 0, len(input.Lines))
	subtotal := types.Zero()
	taxable := types.Zero()

	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, apperror.NewValidation("line quantity must be at least 1").
				WithDetail("upc", line.UPC)
		}
		p, err := s.products.GetByUPC(ctx, line.UPC)
		if err != nil {
			return nil, err
		}
		if p.Quantity < line.Quantity {
			return nil, apperror.NewInsufficientStock(line.UPC, line.Quantity, p.Quantity)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, LineItem{
			UPC:         p.UPC,
			Description: p.Name,
			Quantity:    line.Quantity,
			Price:       p.Price,
			Total:       lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
		if p.Taxable {
			taxable = taxable.Add(lineTotal)
		}
	}

	tax := taxable.Mul(s.cfg.TaxRate).Round(2)
	total := subtotal.Add(tax)

	tx := &Transaction{
		ID:          id.New(),
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		PaymentType: input.PaymentType,
		CreatedAt:   time.Now().UTC(),
	}
	if input.CreatedBy != "" {
		tx.CreatedBy = &input.CreatedBy
	}

	if input.PaymentType == PaymentCash {
		if input.CashTendered == nil {
			return nil, apperror.NewValidation("cash sale requires cashTendered")
		}
		if input.CashTendered.LessThan(total) {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "cash tendered is less than total").
				WithDetail("total", total.String()).
				WithDetail("tendered", input.CashTendered.String())
		}
		change := input.CashTendered.Sub(total)
		tx.CashTendered = input.CashTendered
		tx.ChangeGiven = &change
	}

	raw, err := EncodeLineItems(items)
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	tx.RawItems = raw

	// Transaction row and stock decrements commit or roll back together.
	write := func(ctx context.Context) error {
		if err := s.repo.Create(ctx, tx); err != nil {
			return err
		}
		for _, line := range input.Lines {
			if err := s.products.AdjustQuantity(ctx, line.UPC, -line.Quantity); err != nil {
				return fmt.Errorf("adjust stock for %s: %w", line.UPC, err)
			}
		}
		return nil
	}
	if s.txm != nil {
		err = s.txm.RunInTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Receipt archival is best-effort: a sale must not fail because the
	// archive write did.
	if s.archive != nil {
		compressed := s.receipts.Compress(s.receipts.Render(tx, items))
		if err := s.archive.Save(ctx, tx.ID, compressed); err != nil {
			logger.Warn(ctx, "receipt archive failed", "transaction_id", tx.ID, "error", err)
		}
	}

	if s.invalidate != nil {
		if err := s.invalidate.Invalidate(ctx); err != nil {
			logger.Warn(ctx, "report cache invalidation failed", "error", err)
		}
	}

	logger.Info(ctx, "sale recorded",
		"transaction_id", tx.ID,
		"total", total.String(),
		"payment_type", string(input.PaymentType),
		"lines", len(items),
	)
	return tx, nil
}

// Get returns a transaction by ID.
func (s *Service) Get(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// ListByDateRange returns transactions within the inclusive calendar range.
func (s *Service) ListByDateRange(ctx context.Context, r period.Range) ([]Transaction, error) {
	return s.repo.ListByDateRange(ctx, r)
}

// Receipt retrieves and decompresses the archived receipt text.
func (s *Service) Receipt(ctx context.Context, txID id.ID) (string, error) {
	if s.archive == nil {
		return "", apperror.NewNotFound("receipt", txID.String())
	}
	compressed, err := s.archive.Get(ctx, txID)
	if err != nil {
		return "", err
	}
	text, err := s.receipts.Decompress(compressed)
	if err != nil {
		return "", fmt.Errorf("decompress receipt: %w", err)
	}
	return text, nil
}
