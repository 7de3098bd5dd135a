package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/catalogs/product"
	"fogon/internal/infrastructure/storage/postgres"
)

const productTable = "products"

var productColumns = []string{
	"id", "name", "category", "price", "active", "created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{txManager: txManager}
}

// Create creates a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := psql.Insert(productTable).
		Columns(productColumns...).
		Values(p.ID, p.Name, p.Category, p.Price, p.Active, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := psql.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

// Update updates a product's mutable fields.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := psql.Update(productTable).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("price", p.Price).
		Set("active", p.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// List returns products ordered by category then name.
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]*product.Product, error) {
	builder := psql.Select(productColumns...).
		From(productTable).
		OrderBy("category", "name")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByName retrieves a product by exact name.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*product.Product, error) {
	sql, args, err := psql.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", name)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}
