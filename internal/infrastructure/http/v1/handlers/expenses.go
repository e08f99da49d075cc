package handlers

import (
	"github.com/gin-gonic/gin"

	"barback/internal/domain/expense"
	"barback/internal/infrastructure/http/v1/dto"
)

// ExpensesHandler serves expense entry and lookup.
type ExpensesHandler struct {
	*BaseHandler
	service *expense.Service
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(base *BaseHandler, service *expense.Service) *ExpensesHandler {
	return &ExpensesHandler{BaseHandler: base, service: service}
}

// Create records a new expense entry.
// POST /api/v1/expenses
func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := req.ToEntry()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Add(c.Request.Context(), entry); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entry.ID.String())
}

// List returns expense entries within a date range.
// GET /api/v1/expenses?start&end
func (h *ExpensesHandler) List(c *gin.Context) {
	r, ok := h.BindRange(c)
	if !ok {
		return
	}

	entries, err := h.service.ListByDateRange(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}
