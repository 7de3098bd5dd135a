package inventory

import (
	"context"
	"fmt"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/pkg/logger"
)

// Service provides read and maintenance operations over the ledger.
// Stock mutations belong to the sale-consumption and purchase paths, not
// to this service.
type Service struct {
	items      Repository
	categories CategoryRepository
}

// NewService creates a new inventory service.
func NewService(items Repository, categories CategoryRepository) *Service {
	return &Service{items: items, categories: categories}
}

// SnapshotEntry is one ledger row for display, with the low-stock flag
// computed as currentStock <= minStock.
type SnapshotEntry struct {
	*Item
	LowStock bool `json:"lowStock"`
}

// Snapshot returns the current ledger state for display.
func (s *Service) Snapshot(ctx context.Context, filter ListFilter) ([]SnapshotEntry, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	entries := make([]SnapshotEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, SnapshotEntry{Item: item, LowStock: item.IsLowStock()})
	}
	return entries, nil
}

// GetItem retrieves one ledger item.
func (s *Service) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.items.GetByID(ctx, itemID)
}

// CreateItem adds a new ingredient to the ledger.
func (s *Service) CreateItem(ctx context.Context, item *Item) error {
	item.Name = NormalizeName(item.Name)
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(item.ID) {
		item.ID = id.New()
	}
	if id.IsNil(item.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if err := s.items.Create(ctx, item); err != nil {
		return err
	}

	logger.Info(ctx, "inventory item created", "id", item.ID, "name", item.Name)
	return nil
}

// UpdateItem updates unit, thresholds, category and active flag. Stock is
// never updated through this path.
func (s *Service) UpdateItem(ctx context.Context, item *Item) error {
	existing, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}

	item.Name = NormalizeName(item.Name)
	item.CurrentStock = existing.CurrentStock
	item.CreatedAt = existing.CreatedAt
	if err := item.Validate(ctx); err != nil {
		return err
	}

	return s.items.Update(ctx, item)
}

// Categories lists all inventory categories.
func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory adds a category after a uniqueness check.
func (s *Service) CreateCategory(ctx context.Context, category *Category) error {
	if category.Name == "" {
		return apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}
	existing, err := s.categories.FindByName(ctx, category.Name)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check category name: %w", err)
	}
	if existing != nil {
		return apperror.NewDuplicate("category", "name", category.Name)
	}
	if id.IsNil(category.ID) {
		category.ID = id.New()
	}
	return s.categories.Create(ctx, category)
}
