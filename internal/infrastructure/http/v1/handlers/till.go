package handlers

import (
	"github.com/gin-gonic/gin"

	"barback/internal/domain/till"
	"barback/internal/infrastructure/http/v1/dto"
)

// TillHandler serves cash drawer session endpoints.
type TillHandler struct {
	*BaseHandler
	service *till.Service
}

// NewTillHandler creates a new till handler.
func NewTillHandler(base *BaseHandler, service *till.Service) *TillHandler {
	return &TillHandler{BaseHandler: base, service: service}
}

// Open starts a drawer session.
// POST /api/v1/till/open
func (h *TillHandler) Open(c *gin.Context) {
	var req dto.OpenTillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Open(c.Request.Context(), req.OpenedBy, req.Counts)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// Close counts down and closes the open session.
// POST /api/v1/till/close
func (h *TillHandler) Close(c *gin.Context) {
	var req dto.CloseTillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Close(c.Request.Context(), req.Counts)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// Current returns the open session.
// GET /api/v1/till/current
func (h *TillHandler) Current(c *gin.Context) {
	session, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}
