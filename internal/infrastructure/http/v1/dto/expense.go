package dto

import (
	"barback/internal/core/types"
	"barback/internal/domain/expense"
	"barback/internal/domain/period"
)

// CreateExpenseRequest records one operating expense.
type CreateExpenseRequest struct {
	Category    string      `json:"category" binding:"required"`
	Subcategory *string     `json:"subcategory"`
	Amount      types.Money `json:"amount"`
	Description string      `json:"description"`
	ExpenseDate string      `json:"expenseDate" binding:"required"`
	Recurring   bool        `json:"recurring"`
	CreatedBy   *string     `json:"createdBy"`
}

// ToEntry converts the request into a domain entry. The expense date must
// be a calendar date.
func (r *CreateExpenseRequest) ToEntry() (*expense.Entry, error) {
	date, err := period.ParseDate(r.ExpenseDate)
	if err != nil {
		return nil, err
	}
	return &expense.Entry{
		Category:    expense.Category(r.Category),
		Subcategory: r.Subcategory,
		Amount:      r.Amount,
		Description: r.Description,
		ExpenseDate: date,
		Recurring:   r.Recurring,
		CreatedBy:   r.CreatedBy,
	}, nil
}
