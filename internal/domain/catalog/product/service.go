package product

import (
	"context"
	"fmt"

	"barback/internal/core/apperror"
)

// Service provides catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single product by UPC.
func (s *Service) Get(ctx context.Context, upc string) (*Product, error) {
	return s.repo.GetByUPC(ctx, upc)
}

// List returns catalog items with default pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// Create validates and persists a new catalog item.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

// Update validates and persists changes to an existing item.
// Cost changes apply to all future COGS aggregation, including reports
// over periods before the change.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Restock increases on-hand quantity.
func (s *Service) Restock(ctx context.Context, upc string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("restock quantity must be positive").WithDetail("field", "quantity")
	}
	return s.repo.AdjustQuantity(ctx, upc, qty)
}
