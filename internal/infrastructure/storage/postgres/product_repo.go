package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barback/internal/core/apperror"
	"barback/internal/domain/catalog/product"
)

const productTable = "products"

var productColumns = []string{
	"upc", "name", "category", "cost", "price", "quantity", "taxable",
	"created_at", "updated_at",
}

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByUPC retrieves a product by UPC.
func (r *ProductRepo) GetByUPC(ctx context.Context, upc string) (*product.Product, error) {
	q := r.builder.
		Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"upc": upc})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", upc)
		}
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("get product: %w", err))
	}
	return &p, nil
}

// List retrieves products with optional search and category filtering.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	q := r.builder.
		Select(productColumns...).
		From(productTable).
		OrderBy("name ASC")

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	q := r.builder.
		Insert(productTable).
		Columns(productColumns...).
		Values(p.UPC, p.Name, p.Category, p.Cost, p.Price, p.Quantity, p.Taxable,
			p.CreatedAt, p.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("product", "upc", p.UPC)
		}
		return apperror.NewStoreUnavailable(fmt.Errorf("create product: %w", err))
	}
	return nil
}

// Update replaces a product's mutable fields.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	p.UpdatedAt = time.Now().UTC()

	q := r.builder.
		Update(productTable).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("cost", p.Cost).
		Set("price", p.Price).
		Set("quantity", p.Quantity).
		Set("taxable", p.Taxable).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"upc": p.UPC})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("update product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.UPC)
	}
	return nil
}

// CostInfoByUPC bulk-resolves cost, category and on-hand quantity.
// Unknown UPCs are absent from the result.
func (r *ProductRepo) CostInfoByUPC(ctx context.Context, upcs []string) (map[string]product.CostInfo, error) {
	if len(upcs) == 0 {
		return map[string]product.CostInfo{}, nil
	}

	q := r.builder.
		Select("upc", "category", "cost", "quantity").
		From(productTable).
		Where(squirrel.Eq{"upc": upcs})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []product.CostInfo
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, apperror.NewStoreUnavailable(fmt.Errorf("cost info: %w", err))
	}

	out := make(map[string]product.CostInfo, len(rows))
	for _, row := range rows {
		out[row.UPC] = row
	}
	return out, nil
}

// AdjustQuantity shifts on-hand quantity by delta (negative for sales).
func (r *ProductRepo) AdjustQuantity(ctx context.Context, upc string, delta int) error {
	q := r.builder.
		Update(productTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"upc": upc})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStoreUnavailable(fmt.Errorf("adjust quantity: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", upc)
	}
	return nil
}
