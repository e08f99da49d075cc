package till

import (
	"context"
	"time"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/pkg/logger"
)

// Service manages till sessions.
type Service struct {
	repo   Repository
	ledger CashLedger
}

// NewService creates a new till service.
func NewService(repo Repository, ledger CashLedger) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// Open starts a new session. Only one session may be open at a time.
func (s *Service) Open(ctx context.Context, openedBy string, counts Denominations) (*Session, error) {
	if _, err := s.repo.GetOpen(ctx); err == nil {
		return nil, apperror.NewBusinessRule(apperror.CodeTillAlreadyOpen, "a till session is already open")
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	session := &Session{
		ID:            id.New(),
		OpenedBy:      openedBy,
		Status:        StatusOpen,
		OpeningCounts: counts,
		OpeningTotal:  counts.Total(),
		OpenedAt:      time.Now().UTC(),
	}
	if err := session.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Info(ctx, "till opened",
		"session_id", session.ID,
		"opened_by", openedBy,
		"opening_total", session.OpeningTotal.String(),
	)
	return session, nil
}

// Close counts down the open session. Expected cash is the opening float
// plus cash sales taken during the session; variance is counted minus
// expected.
func (s *Service) Close(ctx context.Context, counts Denominations) (*Session, error) {
	session, err := s.repo.GetOpen(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewBusinessRule(apperror.CodeTillNotOpen, "no till session is open")
		}
		return nil, err
	}
	if counts.Negative() {
		return nil, apperror.NewValidation("denomination counts cannot be negative")
	}

	now := time.Now().UTC()
	cashSales, err := s.ledger.CashTotalBetween(ctx, session.OpenedAt, now)
	if err != nil {
		return nil, err
	}

	counted := counts.Total()
	expected := session.OpeningTotal.Add(cashSales)
	variance := counted.Sub(expected)

	session.Status = StatusClosed
	session.ClosingCounts = &counts
	session.ClosingTotal = &counted
	session.ExpectedCash = &expected
	session.Variance = &variance
	session.ClosedAt = &now

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}

	logger.Info(ctx, "till closed",
		"session_id", session.ID,
		"counted", counted.String(),
		"expected", expected.String(),
		"variance", variance.String(),
	)
	return session, nil
}

// Current returns the open session.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	return s.repo.GetOpen(ctx)
}
