package sales

import (
	"context"

	"fogon/internal/core/id"
)

// Repository defines persistence operations for sale tickets.
type Repository interface {
	// Create inserts the sale header and all of its lines.
	Create(ctx context.Context, sale *Sale) error

	// GetByID returns a sale with its lines, or NotFound.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// List returns sales newest first, without lines.
	List(ctx context.Context, limit, offset int) ([]*Sale, error)
}
