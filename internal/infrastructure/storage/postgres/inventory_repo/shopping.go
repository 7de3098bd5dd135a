package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/shopping"
	"fogon/internal/infrastructure/storage/postgres"
)

const shoppingTable = "shopping_items"

var shoppingColumns = []string{
	"id", "inventory_item_id", "quantity", "estimated_price", "created_at", "updated_at",
}

// ShoppingRepo implements shopping.Repository.
type ShoppingRepo struct {
	txManager *postgres.TxManager
}

// NewShoppingRepo creates a new shopping-list repository.
func NewShoppingRepo(txManager *postgres.TxManager) *ShoppingRepo {
	return &ShoppingRepo{txManager: txManager}
}

// ListOpen returns all open entries joined with ledger display fields.
func (r *ShoppingRepo) ListOpen(ctx context.Context) ([]shopping.OpenEntry, error) {
	sql, args, err := psql.Select(
		"s.id", "s.inventory_item_id", "s.quantity", "s.estimated_price",
		"s.created_at", "s.updated_at",
		"i.name AS item_name", "i.unit AS item_unit", "i.last_cost",
	).
		From(shoppingTable + " s").
		Join(itemTable + " i ON i.id = s.inventory_item_id").
		OrderBy("i.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []shopping.OpenEntry
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	return entries, nil
}

// GetByIDs fetches open entries by their ids.
func (r *ShoppingRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*shopping.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := psql.Select(shoppingColumns...).
		From(shoppingTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*shopping.Item
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return items, nil
}

// UpsertDemand accumulates demand for an inventory item. The unique index
// on inventory_item_id turns concurrent first-demands into an increment
// race the database resolves, preserving at most one open entry per item.
func (r *ShoppingRepo) UpsertDemand(ctx context.Context, inventoryItemID id.ID, demand types.Quantity, estimatedCost types.Money) error {
	sql, args, err := psql.Insert(shoppingTable).
		Columns(shoppingColumns...).
		Values(id.New(), inventoryItemID, demand, estimatedCost,
			squirrel.Expr("NOW()"), squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (inventory_item_id) DO UPDATE
			SET quantity = ` + shoppingTable + `.quantity + EXCLUDED.quantity,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert demand: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (r *ShoppingRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := psql.Delete(shoppingTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shopping item", itemID.String())
	}
	return nil
}
