package inventory

import (
	"context"

	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Repository defines persistence operations for the inventory ledger.
//
// Stock mutations are expressed as set-based deltas (stock = stock + delta)
// so concurrent transactions serialize through row locks instead of
// read-modify-write at the application level.
type Repository interface {
	// CRUD
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByIDs(ctx context.Context, itemIDs []id.ID) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	List(ctx context.Context, filter ListFilter) ([]*Item, error)

	// Name resolution for the bulk-purchase reconciler. Names must already
	// be in canonical (normalized) form.
	FindByNames(ctx context.Context, names []string) ([]*Item, error)

	// CreateMissing bulk-inserts items, skipping rows whose name already
	// exists (race-safe create-or-skip: two concurrent batches may attempt
	// to create the same new item).
	CreateMissing(ctx context.Context, items []*Item) error

	// AdjustStock applies a single delta to one item's stock. Negative
	// deltas may push stock below zero.
	AdjustStock(ctx context.Context, itemID id.ID, delta types.Quantity) error

	// BulkIncrementStock applies all increments in one set-based update
	// (stock = stock + CASE id WHEN ... END) to keep the bulk-purchase
	// transaction short under large batches.
	BulkIncrementStock(ctx context.Context, increments map[id.ID]types.Quantity) error

	// ApplyPurchase increments stock and updates the last observed unit
	// cost in a single statement.
	ApplyPurchase(ctx context.Context, itemID id.ID, quantity types.Quantity, unitCost types.Money) error
}

// CategoryRepository defines persistence operations for inventory categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	First(ctx context.Context) (*Category, error)
}

// ListFilter narrows ledger listings.
type ListFilter struct {
	ActiveOnly bool
	LowStock   bool
	CategoryID *id.ID
	Search     string
	Limit      int
	Offset     int
}

// DefaultListFilter returns the filter used by the snapshot endpoint.
func DefaultListFilter() ListFilter {
	return ListFilter{ActiveOnly: true, Limit: 500}
}
