package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/core/types"
	"barback/internal/domain/period"
	"barback/internal/domain/sales"
	"barback/internal/domain/till"
)

const (
	transactionTable = "transactions"
	receiptTable     = "receipts"
)

var transactionColumns = []string{
	"id", "items", "subtotal", "tax", "total", "payment_type",
	"cash_tendered", "change_given", "created_by", "created_at",
}

var (
	_ sales.Repository = (*SalesRepo)(nil)
	_ till.CashLedger  = (*SalesRepo)(nil)
)

// SalesRepo implements the append-only transaction store. It also serves
// as the till's cash ledger, since the drawer gains exactly the
// transaction total on each cash sale.
type SalesRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSalesRepo creates a new transaction repository.
func NewSalesRepo(txm *TxManager) *SalesRepo {
	return &SalesRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a transaction. There is no update path.
func (r *SalesRepo) Create(ctx context.Context, t *sales.Transaction) error {
	q := r.builder.
		Insert(transactionTable).
		Columns(transactionColumns...).
		Values(t.ID, t.RawItems, t.Subtotal, t.Tax, t.Total, t.PaymentType,
			t.CashTendered, t.ChangeGiven, t.CreatedBy, t.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("create transaction: %w", err))
	}
	return nil
}

// GetByID retrieves a transaction.
func (r *SalesRepo) GetByID(ctx context.Context, txID id.ID) (*sales.Transaction, error) {
	q := r.builder.
		Select(transactionColumns...).
		From(transactionTable).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t sales.Transaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", txID)
		}
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("get transaction: %w", err))
	}
	return &t, nil
}

// ListByDateRange returns transactions whose creation date falls within
// the inclusive calendar range, oldest first.
func (r *SalesRepo) ListByDateRange(ctx context.Context, rng period.Range) ([]sales.Transaction, error) {
	q := r.builder.
		Select(transactionColumns...).
		From(transactionTable).
		Where(squirrel.GtOrEq{"created_at": rng.Start}).
		Where(squirrel.Lt{"created_at": rng.End.AddDate(0, 0, 1)}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txs []sales.Transaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &txs, sql, args...); err != nil {
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("list transactions: %w", err))
	}
	return txs, nil
}

// CashTotalBetween sums cash-sale totals in the half-open window [from, to).
func (r *SalesRepo) CashTotalBetween(ctx context.Context, from, to time.Time) (types.Money, error) {
	q := r.builder.
		Select("COALESCE(SUM(total), 0) AS total").
		From(transactionTable).
		Where(squirrel.Eq{"payment_type": sales.PaymentCash}).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &total, sql, args...); err != nil {
		return types.Zero(), apperror.NewStoreUnavailable(fmt.Errorf("cash total: %w", err))
	}
	return total, nil
}

var _ sales.ReceiptArchive = (*ReceiptRepo)(nil)

// ReceiptRepo stores zstd-compressed receipt text keyed by transaction ID.
type ReceiptRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewReceiptRepo creates a new receipt archive.
func NewReceiptRepo(txm *TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save stores the compressed receipt payload.
func (r *ReceiptRepo) Save(ctx context.Context, txID id.ID, compressed []byte) error {
	q := r.builder.
		Insert(receiptTable).
		Columns("transaction_id", "payload", "created_at").
		Values(txID, compressed, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("save receipt: %w", err))
	}
	return nil
}

// Get retrieves the compressed receipt payload.
func (r *ReceiptRepo) Get(ctx context.Context, txID id.ID) ([]byte, error) {
	q := r.builder.
		Select("payload").
		From(receiptTable).
		Where(squirrel.Eq{"transaction_id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payload []byte
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &payload, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipt", txID)
		}
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("get receipt: %w", err))
	}
	return payload, nil
}
