package purchasing

import (
	"context"

	"fogon/internal/core/id"
)

// Repository defines persistence operations for purchase history.
type Repository interface {
	// Create inserts a single purchase record.
	Create(ctx context.Context, purchase *Purchase) error

	// CreateBatch inserts many purchase records in one round trip.
	// Called inside the bulk-purchase transaction.
	CreateBatch(ctx context.Context, purchases []*Purchase) error

	// List returns purchase history, newest first.
	List(ctx context.Context, limit, offset int) ([]*Purchase, error)

	// ListByItem returns purchase history for one ledger item.
	ListByItem(ctx context.Context, itemID id.ID, limit int) ([]*Purchase, error)
}
