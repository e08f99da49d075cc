package handlers

import (
	"github.com/gin-gonic/gin"

	"barback/internal/domain/period"
	"barback/internal/domain/pnl"
	"barback/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the P&L reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *pnl.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *pnl.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// GetPnL returns one statement over the requested range.
// GET /api/v1/reports/pnl?start&end
func (h *ReportsHandler) GetPnL(c *gin.Context) {
	r, ok := h.BindRange(c)
	if !ok {
		return
	}

	statement, err := h.service.CalculatePnL(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, statement)
}

// GetBreakdown returns statements at every granularity plus the custom
// range.
// GET /api/v1/reports/pnl/breakdown?start&end
func (h *ReportsHandler) GetBreakdown(c *gin.Context) {
	r, ok := h.BindRange(c)
	if !ok {
		return
	}

	breakdown, err := h.service.GenerateBreakdown(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, breakdown)
}

// Compare returns deltas between two periods.
// POST /api/v1/reports/pnl/compare
func (h *ReportsHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if !h.BindJSON(c, &req) {
		return
	}

	currentRange, err := period.ParseRange(req.Current.Start, req.Current.End)
	if err != nil {
		h.Error(c, err)
		return
	}
	previousRange, err := period.ParseRange(req.Previous.Start, req.Previous.End)
	if err != nil {
		h.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	current, err := h.service.CalculatePnL(ctx, currentRange)
	if err != nil {
		h.Error(c, err)
		return
	}
	previous, err := h.service.CalculatePnL(ctx, previousRange)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CompareResponse{
		Current:  current,
		Previous: previous,
		Deltas:   pnl.Compare(current, previous),
	})
}

// GetCategoryPerformance ranks categories by revenue.
// GET /api/v1/reports/performance/categories?start&end[&filter]
func (h *ReportsHandler) GetCategoryPerformance(c *gin.Context) {
	var q dto.PerformanceQuery
	if !h.BindQuery(c, &q) {
		return
	}
	r, err := period.ParseRange(q.Start, q.End)
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := h.service.CategoryPerformance(c.Request.Context(), r, q.Filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: rows, Count: len(rows)})
}

// GetProductPerformance ranks products by revenue.
// GET /api/v1/reports/performance/products?start&end[&limit][&filter]
func (h *ReportsHandler) GetProductPerformance(c *gin.Context) {
	var q dto.ProductPerformanceQuery
	if !h.BindQuery(c, &q) {
		return
	}
	r, err := period.ParseRange(q.Start, q.End)
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := h.service.ProductPerformance(c.Request.Context(), r, q.Limit, q.Filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: rows, Count: len(rows)})
}
