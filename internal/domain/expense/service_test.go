package expense

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/core/types"
	"barback/internal/domain/period"
)

type fakeExpenseRepo struct {
	entries []Entry
}

func (f *fakeExpenseRepo) Create(ctx context.Context, e *Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeExpenseRepo) ListByDateRange(ctx context.Context, r period.Range) ([]Entry, error) {
	var out []Entry
	for _, e := range f.entries {
		if r.Contains(e.ExpenseDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func TestAdd(t *testing.T) {
	repo := &fakeExpenseRepo{}
	inv := &countingInvalidator{}
	svc := NewService(repo, inv)

	entry := &Entry{
		Category:    CategoryRent,
		Amount:      types.NewMoney(3800),
		Description: "storefront lease",
		ExpenseDate: time.Date(2025, 6, 1, 16, 45, 0, 0, time.UTC),
	}
	require.NoError(t, svc.Add(context.Background(), entry))

	assert.False(t, id.IsNil(entry.ID))
	assert.False(t, entry.CreatedAt.IsZero())
	// Expense dates are calendar dates; time-of-day is dropped.
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), entry.ExpenseDate)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, 1, inv.calls)
}

func TestAdd_Invalid(t *testing.T) {
	svc := NewService(&fakeExpenseRepo{}, nil)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := map[string]*Entry{
		"unknown category": {Category: "travel", Amount: types.NewMoney(10), ExpenseDate: date},
		"zero amount":      {Category: CategoryLabor, Amount: types.Zero(), ExpenseDate: date},
		"negative amount":  {Category: CategoryLabor, Amount: types.NewMoney(-5), ExpenseDate: date},
		"missing date":     {Category: CategoryLabor, Amount: types.NewMoney(10)},
	}
	for name, entry := range cases {
		err := svc.Add(ctx, entry)
		require.Error(t, err, name)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, name)
		assert.Equal(t, apperror.CodeValidation, appErr.Code, name)
	}
}

func TestListByDateRange(t *testing.T) {
	repo := &fakeExpenseRepo{
		entries: []Entry{
			{Category: CategoryRent, Amount: types.NewMoney(3800), ExpenseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			{Category: CategoryLabor, Amount: types.NewMoney(5200), ExpenseDate: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewService(repo, nil)

	r, err := period.ParseRange("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	entries, err := svc.ListByDateRange(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CategoryRent, entries[0].Category)
}

func TestRollUp(t *testing.T) {
	entries := []Entry{
		{Category: CategoryLabor, Amount: types.NewMoney(5200)},
		{Category: CategoryRent, Amount: types.NewMoney(3800)},
		{Category: CategoryUtilities, Amount: types.NewMoney(640)},
		{Category: CategoryMarketing, Amount: types.NewMoney(200)},
		{Category: CategorySupplies, Amount: types.NewMoney(95.40)},
		{Category: CategoryInsurance, Amount: types.NewMoney(410)},
		{Category: CategoryOther, Amount: types.NewMoney(50)},
	}

	b := RollUp(entries)
	assert.True(t, b.Labor.Equal(types.NewMoney(5200)))
	assert.True(t, b.Rent.Equal(types.NewMoney(3800)))
	assert.True(t, b.Utilities.Equal(types.NewMoney(640)))
	// Marketing, supplies and insurance fold into Other.
	assert.True(t, b.Other.Equal(types.NewMoney(755.40)), "other %s", b.Other)
	assert.True(t, b.Total.Equal(b.Labor.Add(b.Rent).Add(b.Utilities).Add(b.Other)))
}

func TestRollUp_Empty(t *testing.T) {
	b := RollUp(nil)
	assert.True(t, b.Total.IsZero())
	assert.True(t, b.Labor.IsZero())
	assert.True(t, b.Other.IsZero())
}
