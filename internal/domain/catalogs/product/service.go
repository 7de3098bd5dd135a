package product

import (
	"context"
	"fmt"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/pkg/logger"
)

// Service provides business logic for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a product after a name-uniqueness check.
func (s *Service) Create(ctx context.Context, product *Product) error {
	if err := product.Validate(ctx); err != nil {
		return err
	}
	existing, err := s.repo.FindByName(ctx, product.Name)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check product name: %w", err)
	}
	if existing != nil {
		return apperror.NewDuplicate("product", "name", product.Name)
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	logger.Info(ctx, "product created", "product_id", product.ID, "name", product.Name)
	return nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update modifies a product's mutable fields.
func (s *Service) Update(ctx context.Context, product *Product) error {
	if err := product.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	logger.Info(ctx, "product updated", "product_id", product.ID)
	return nil
}

// List returns products, optionally only the active menu.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	return s.repo.List(ctx, activeOnly)
}

// Deactivate pulls a product off the menu without losing sale history.
func (s *Service) Deactivate(ctx context.Context, productID id.ID) error {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	product.Active = false
	return s.repo.Update(ctx, product)
}
