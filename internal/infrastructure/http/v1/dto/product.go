package dto

import (
	"barback/internal/core/types"
	"barback/internal/domain/catalog/product"
)

// CreateProductRequest adds a catalog item.
type CreateProductRequest struct {
	UPC      string      `json:"upc" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Category string      `json:"category"`
	Cost     types.Money `json:"cost"`
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Taxable  bool        `json:"taxable"`
}

// ToProduct converts the request into a domain product.
func (r *CreateProductRequest) ToProduct() *product.Product {
	return &product.Product{
		UPC:      r.UPC,
		Name:     r.Name,
		Category: r.Category,
		Cost:     r.Cost,
		Price:    r.Price,
		Quantity: r.Quantity,
		Taxable:  r.Taxable,
	}
}

// UpdateProductRequest replaces a catalog item's mutable fields.
type UpdateProductRequest struct {
	Name     string      `json:"name" binding:"required"`
	Category string      `json:"category"`
	Cost     types.Money `json:"cost"`
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Taxable  bool        `json:"taxable"`
}

// RestockRequest adds stock to an existing item.
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductListQuery narrows catalog listings.
type ProductListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
