package product

import (
	"context"

	"fogon/internal/core/id"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, product *Product) error
	List(ctx context.Context, activeOnly bool) ([]*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
}
