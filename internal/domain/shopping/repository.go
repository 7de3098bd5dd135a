package shopping

import (
	"context"

	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Repository defines persistence operations for the replenishment list.
type Repository interface {
	// ListOpen returns all open entries joined with ledger display fields.
	ListOpen(ctx context.Context) ([]OpenEntry, error)

	// GetByIDs fetches open entries by their ids.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Item, error)

	// UpsertDemand accumulates demand for an inventory item: increments
	// the open entry's quantity if one exists, otherwise creates it with
	// the given estimated unit cost. Implemented as a single upsert so the
	// at-most-one-open-entry invariant holds under concurrency.
	UpsertDemand(ctx context.Context, inventoryItemID id.ID, demand types.Quantity, estimatedCost types.Money) error

	// Delete removes an entry. Returns NotFound if it does not exist.
	Delete(ctx context.Context, itemID id.ID) error
}
