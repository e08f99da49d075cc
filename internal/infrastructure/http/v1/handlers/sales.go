package handlers

import (
	"github.com/gin-gonic/gin"

	"barback/internal/core/apperror"
	"barback/internal/core/id"
	"barback/internal/domain/sales"
	"barback/internal/infrastructure/http/v1/dto"
)

// SalesHandler serves sale recording and transaction lookups.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Record completes a sale.
// POST /api/v1/sales
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.service.RecordSale(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tx)
}

// List returns transactions within a date range.
// GET /api/v1/sales?start&end
func (h *SalesHandler) List(c *gin.Context) {
	r, ok := h.BindRange(c)
	if !ok {
		return
	}

	txs, err := h.service.ListByDateRange(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: txs, Count: len(txs)})
}

// Get returns one transaction.
// GET /api/v1/sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid transaction id"))
		return
	}

	tx, err := h.service.Get(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tx)
}

// Receipt returns the archived receipt text.
// GET /api/v1/sales/:id/receipt
func (h *SalesHandler) Receipt(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid transaction id"))
		return
	}

	text, err := h.service.Receipt(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ReceiptResponse{TransactionID: txID.String(), Receipt: text})
}
