package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barback/internal/core/apperror"
	"barback/internal/domain/expense"
	"barback/internal/domain/period"
)

const expenseTable = "expenses"

var expenseColumns = []string{
	"id", "category", "subcategory", "amount", "description",
	"expense_date", "recurring", "created_by", "created_at",
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new expense entry.
func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Entry) error {
	q := r.builder.
		Insert(expenseTable).
		Columns(expenseColumns...).
		Values(e.ID, e.Category, e.Subcategory, e.Amount, e.Description,
			e.ExpenseDate, e.Recurring, e.CreatedBy, e.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("create expense: %w", err))
	}
	return nil
}

// ListByDateRange returns entries whose expense date falls within the
// inclusive calendar range, oldest first.
func (r *ExpenseRepo) ListByDateRange(ctx context.Context, rng period.Range) ([]expense.Entry, error) {
	q := r.builder.
		Select(expenseColumns...).
		From(expenseTable).
		Where(squirrel.GtOrEq{"expense_date": rng.Start}).
		Where(squirrel.LtOrEq{"expense_date": rng.End}).
		OrderBy("expense_date ASC, created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []expense.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("list expenses: %w", err))
	}
	return entries, nil
}
