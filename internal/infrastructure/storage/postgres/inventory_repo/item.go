// Package inventory_repo provides PostgreSQL implementations for the
// inventory ledger, recipe, shopping-list and purchase repositories.
package inventory_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/inventory"
	"fogon/internal/infrastructure/storage/postgres"
)

const itemTable = "inv_items"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var itemColumns = []string{
	"id", "name", "unit", "current_stock", "min_stock", "last_cost",
	"active", "category_id", "created_at", "updated_at",
}

// ItemRepo implements inventory.Repository.
type ItemRepo struct {
	txManager *postgres.TxManager
}

// NewItemRepo creates a new ledger item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{txManager: txManager}
}

// Create creates a new item.
func (r *ItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	sql, args, err := psql.Insert(itemTable).
		Columns(itemColumns...).
		Values(item.ID, item.Name, item.Unit, item.CurrentStock, item.MinStock,
			item.LastCost, item.Active, item.CategoryID, item.CreatedAt, item.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by id.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	sql, args, err := psql.Select(itemColumns...).
		From(itemTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID.String())
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

// GetByIDs retrieves items by ids. Missing ids are silently absent from
// the result.
func (r *ItemRepo) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]*inventory.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	sql, args, err := psql.Select(itemColumns...).
		From(itemTable).
		Where(squirrel.Eq{"id": itemIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}

// Update updates an item's descriptive fields. Stock is never written
// here; stock changes go through the delta operations below.
func (r *ItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	sql, args, err := psql.Update(itemTable).
		Set("name", item.Name).
		Set("unit", item.Unit).
		Set("min_stock", item.MinStock).
		Set("last_cost", item.LastCost).
		Set("active", item.Active).
		Set("category_id", item.CategoryID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", item.ID.String())
	}
	return nil
}

// List returns items matching the filter, ordered by name.
func (r *ItemRepo) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	builder := psql.Select(itemColumns...).
		From(itemTable).
		OrderBy("name")

	if filter.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"active": true})
	}
	if filter.LowStock {
		builder = builder.Where(squirrel.Expr("current_stock <= min_stock"))
	}
	if filter.CategoryID != nil {
		builder = builder.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Search != "" {
		builder = builder.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindByNames retrieves items whose canonical name is in names.
func (r *ItemRepo) FindByNames(ctx context.Context, names []string) ([]*inventory.Item, error) {
	if len(names) == 0 {
		return nil, nil
	}

	sql, args, err := psql.Select(itemColumns...).
		From(itemTable).
		Where(squirrel.Eq{"name": names}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find items by name: %w", err)
	}
	return items, nil
}

// CreateMissing bulk-inserts items, skipping names that already exist.
// The conflict target is the unique index on name, which makes concurrent
// create-or-skip races resolve inside the database.
func (r *ItemRepo) CreateMissing(ctx context.Context, items []*inventory.Item) error {
	if len(items) == 0 {
		return nil
	}

	builder := psql.Insert(itemTable).Columns(itemColumns...)
	for _, item := range items {
		builder = builder.Values(item.ID, item.Name, item.Unit, item.CurrentStock,
			item.MinStock, item.LastCost, item.Active, item.CategoryID,
			item.CreatedAt, item.UpdatedAt)
	}
	builder = builder.Suffix("ON CONFLICT (name) DO NOTHING")

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// AdjustStock applies a delta to one item's stock. The set-based form
// serializes concurrent adjustments through the row lock.
func (r *ItemRepo) AdjustStock(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	sql, args, err := psql.Update(itemTable).
		Set("current_stock", squirrel.Expr("current_stock + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID.String())
	}
	return nil
}

// BulkIncrementStock applies all increments in one statement so a large
// batch touches each row exactly once and holds its locks briefly.
func (r *ItemRepo) BulkIncrementStock(ctx context.Context, increments map[id.ID]types.Quantity) error {
	if len(increments) == 0 {
		return nil
	}

	var caseExpr strings.Builder
	args := make([]any, 0, len(increments)*2+len(increments))
	ids := make([]id.ID, 0, len(increments))

	caseExpr.WriteString("CASE id")
	n := 1
	for itemID, qty := range increments {
		fmt.Fprintf(&caseExpr, " WHEN $%d THEN $%d::numeric", n, n+1)
		args = append(args, itemID, qty)
		ids = append(ids, itemID)
		n += 2
	}
	caseExpr.WriteString(" ELSE 0 END")

	placeholders := make([]string, 0, len(ids))
	for _, itemID := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", n))
		args = append(args, itemID)
		n++
	}

	sql := fmt.Sprintf(
		"UPDATE %s SET current_stock = current_stock + %s, updated_at = NOW() WHERE id IN (%s)",
		itemTable, caseExpr.String(), strings.Join(placeholders, ", "),
	)

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("bulk increment stock: %w", err)
	}
	if int(result.RowsAffected()) != len(increments) {
		return apperror.NewTransactionFailure(
			fmt.Errorf("expected %d rows updated, got %d", len(increments), result.RowsAffected()))
	}
	return nil
}

// ApplyPurchase increments stock and moves last_cost in one statement.
func (r *ItemRepo) ApplyPurchase(ctx context.Context, itemID id.ID, quantity types.Quantity, unitCost types.Money) error {
	sql, args, err := psql.Update(itemTable).
		Set("current_stock", squirrel.Expr("current_stock + ?", quantity)).
		Set("last_cost", unitCost).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("apply purchase: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID.String())
	}
	return nil
}
