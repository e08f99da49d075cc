package till

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barback/internal/core/apperror"
	"barback/internal/core/types"
)

type fakeTillRepo struct {
	sessions map[string]*Session
}

func newFakeTillRepo() *fakeTillRepo {
	return &fakeTillRepo{sessions: make(map[string]*Session)}
}

func (f *fakeTillRepo) Create(ctx context.Context, s *Session) error {
	copied := *s
	f.sessions[s.ID.String()] = &copied
	return nil
}

func (f *fakeTillRepo) Update(ctx context.Context, s *Session) error {
	if _, ok := f.sessions[s.ID.String()]; !ok {
		return apperror.NewNotFound("till session", s.ID)
	}
	copied := *s
	f.sessions[s.ID.String()] = &copied
	return nil
}

func (f *fakeTillRepo) GetOpen(ctx context.Context) (*Session, error) {
	for _, s := range f.sessions {
		if s.Status == StatusOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("till session", "open")
}

type fakeLedger struct {
	cash types.Money
}

func (f *fakeLedger) CashTotalBetween(ctx context.Context, from, to time.Time) (types.Money, error) {
	return f.cash, nil
}

func TestDenominationsTotal(t *testing.T) {
	d := Denominations{Pennies: 3, Quarters: 2, Ones: 5, Twenties: 10}
	// 0.03 + 0.50 + 5.00 + 200.00
	assert.True(t, d.Total().Equal(types.NewMoney(205.53)), "total %s", d.Total())

	assert.True(t, Denominations{}.Total().IsZero())
	assert.True(t, Denominations{Nickels: -1}.Negative())
	assert.False(t, Denominations{Hundreds: 2}.Negative())
}

func TestOpen(t *testing.T) {
	repo := newFakeTillRepo()
	svc := NewService(repo, &fakeLedger{cash: types.Zero()})

	counts := Denominations{Twenties: 10}
	session, err := svc.Open(context.Background(), "mia", counts)
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, session.Status)
	assert.Equal(t, "mia", session.OpenedBy)
	assert.True(t, session.OpeningTotal.Equal(types.NewMoney(200)))
	assert.False(t, session.OpenedAt.IsZero())

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
}

func TestOpen_AlreadyOpen(t *testing.T) {
	repo := newFakeTillRepo()
	svc := NewService(repo, &fakeLedger{})

	_, err := svc.Open(context.Background(), "mia", Denominations{Ones: 100})
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), "jo", Denominations{Ones: 100})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTillAlreadyOpen, appErr.Code)
}

func TestOpen_RequiresOperator(t *testing.T) {
	svc := NewService(newFakeTillRepo(), &fakeLedger{})

	_, err := svc.Open(context.Background(), "", Denominations{Ones: 100})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestClose_ComputesVariance(t *testing.T) {
	repo := newFakeTillRepo()
	svc := NewService(repo, &fakeLedger{cash: types.NewMoney(150.25)})

	_, err := svc.Open(context.Background(), "mia", Denominations{Twenties: 10})
	require.NoError(t, err)

	// Drawer should hold 200.00 + 150.25; the count comes up a quarter short.
	closed, err := svc.Close(context.Background(), Denominations{Hundreds: 3, Twenties: 2, Tens: 1})
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosingTotal)
	assert.True(t, closed.ClosingTotal.Equal(types.NewMoney(350)))
	require.NotNil(t, closed.ExpectedCash)
	assert.True(t, closed.ExpectedCash.Equal(types.NewMoney(350.25)))
	require.NotNil(t, closed.Variance)
	assert.True(t, closed.Variance.Equal(types.NewMoney(-0.25)), "variance %s", closed.Variance)
	require.NotNil(t, closed.ClosedAt)

	_, err = svc.Current(context.Background())
	assert.True(t, apperror.IsNotFound(err))
}

func TestClose_NoOpenSession(t *testing.T) {
	svc := NewService(newFakeTillRepo(), &fakeLedger{})

	_, err := svc.Close(context.Background(), Denominations{Ones: 10})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTillNotOpen, appErr.Code)
}

func TestClose_NegativeCounts(t *testing.T) {
	repo := newFakeTillRepo()
	svc := NewService(repo, &fakeLedger{})

	_, err := svc.Open(context.Background(), "mia", Denominations{Ones: 10})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), Denominations{Dimes: -2})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
