package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barback/internal/core/apperror"
	"barback/internal/domain/till"
)

const tillTable = "till_sessions"

var tillColumns = []string{
	"id", "opened_by", "status", "opening_counts", "opening_total",
	"closing_counts", "closing_total", "expected_cash", "variance",
	"opened_at", "closed_at",
}

var _ till.Repository = (*TillRepo)(nil)

// TillRepo implements till.Repository. Denomination counts are stored as
// JSONB.
type TillRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewTillRepo creates a new till session repository.
func NewTillRepo(txm *TxManager) *TillRepo {
	return &TillRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new session.
func (r *TillRepo) Create(ctx context.Context, s *till.Session) error {
	q := r.builder.
		Insert(tillTable).
		Columns(tillColumns...).
		Values(s.ID, s.OpenedBy, s.Status, s.OpeningCounts, s.OpeningTotal,
			s.ClosingCounts, s.ClosingTotal, s.ExpectedCash, s.Variance,
			s.OpenedAt, s.ClosedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("create till session: %w", err))
	}
	return nil
}

// Update persists close-out fields.
func (r *TillRepo) Update(ctx context.Context, s *till.Session) error {
	q := r.builder.
		Update(tillTable).
		Set("status", s.Status).
		Set("closing_counts", s.ClosingCounts).
		Set("closing_total", s.ClosingTotal).
		Set("expected_cash", s.ExpectedCash).
		Set("variance", s.Variance).
		Set("closed_at", s.ClosedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("update till session: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("till session", s.ID)
	}
	return nil
}

// GetOpen returns the currently open session.
func (r *TillRepo) GetOpen(ctx context.Context) (*till.Session, error) {
	q := r.builder.
		Select(tillColumns...).
		From(tillTable).
		Where(squirrel.Eq{"status": till.StatusOpen}).
		OrderBy("opened_at DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s till.Session
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("till session", "open")
		}
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("get open session: %w", err))
	}
	return &s, nil
}
