package handlers

import (
	"github.com/gin-gonic/gin"

	"barback/internal/domain/catalog/product"
	"barback/internal/infrastructure/http/v1/dto"
)

// ProductsHandler serves catalog lookups and upkeep.
type ProductsHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(base *BaseHandler, service *product.Service) *ProductsHandler {
	return &ProductsHandler{BaseHandler: base, service: service}
}

// List returns catalog items.
// GET /api/v1/products?search&category&limit&offset
func (h *ProductsHandler) List(c *gin.Context) {
	var q dto.ProductListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	products, err := h.service.List(c.Request.Context(), product.ListFilter{
		Search:   q.Search,
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: products, Count: len(products)})
}

// Get returns one catalog item by UPC.
// GET /api/v1/products/:upc
func (h *ProductsHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("upc"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create adds a catalog item.
// POST /api/v1/products
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToProduct()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.UPC)
}

// Update replaces a catalog item's mutable fields.
// PUT /api/v1/products/:upc
func (h *ProductsHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := &product.Product{
		UPC:      c.Param("upc"),
		Name:     req.Name,
		Category: req.Category,
		Cost:     req.Cost,
		Price:    req.Price,
		Quantity: req.Quantity,
		Taxable:  req.Taxable,
	}
	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Restock adds stock to an existing item.
// POST /api/v1/products/:upc/restock
func (h *ProductsHandler) Restock(c *gin.Context) {
	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Restock(c.Request.Context(), c.Param("upc"), req.Quantity); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "restocked")
}
