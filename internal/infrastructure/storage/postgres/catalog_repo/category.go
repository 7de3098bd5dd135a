// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/domain/inventory"
	"fogon/internal/infrastructure/storage/postgres"
)

const categoryTable = "inv_categories"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// CategoryRepo implements inventory.CategoryRepository.
type CategoryRepo struct {
	txManager *postgres.TxManager
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{txManager: txManager}
}

// Create creates a new category.
func (r *CategoryRepo) Create(ctx context.Context, category *inventory.Category) error {
	sql, args, err := psql.Insert(categoryTable).
		Columns("id", "name", "created_at").
		Values(category.ID, category.Name, category.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*inventory.Category, error) {
	sql, args, err := psql.Select("id", "name", "created_at").
		From(categoryTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []*inventory.Category
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByName retrieves a category by exact name.
func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*inventory.Category, error) {
	sql, args, err := psql.Select("id", "name", "created_at").
		From(categoryTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var category inventory.Category
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &category, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", name)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// First returns the oldest category, used as a fallback when the
// well-known one is missing.
func (r *CategoryRepo) First(ctx context.Context) (*inventory.Category, error) {
	sql, args, err := psql.Select("id", "name", "created_at").
		From(categoryTable).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var category inventory.Category
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &category, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", "any")
		}
		return nil, fmt.Errorf("first category: %w", err)
	}
	return &category, nil
}
