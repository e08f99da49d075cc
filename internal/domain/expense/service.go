package expense

import (
	"context"
	"fmt"
	"time"

	"barback/internal/core/id"
	"barback/internal/domain/period"
	"barback/pkg/logger"
)

// Service provides expense entry and lookup operations.
type Service struct {
	repo       Repository
	invalidate Invalidator
}

// NewService creates a new expense service.
func NewService(repo Repository, invalidate Invalidator) *Service {
	return &Service{repo: repo, invalidate: invalidate}
}

// Add validates and persists a new expense entry.
func (s *Service) Add(ctx context.Context, e *Entry) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.ExpenseDate = period.Normalize(e.ExpenseDate)

	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	if s.invalidate != nil {
		if err := s.invalidate.Invalidate(ctx); err != nil {
			logger.Warn(ctx, "report cache invalidation failed", "error", err)
		}
	}

	logger.Info(ctx, "expense recorded",
		"expense_id", e.ID,
		"category", string(e.Category),
		"amount", e.Amount.String(),
	)
	return nil
}

// ListByDateRange returns expense entries within the inclusive range.
func (s *Service) ListByDateRange(ctx context.Context, r period.Range) ([]Entry, error) {
	return s.repo.ListByDateRange(ctx, r)
}
