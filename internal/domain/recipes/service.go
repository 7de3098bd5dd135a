package recipes

import (
	"context"
	"fmt"
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/tx"
	"fogon/internal/domain/audit"
	"fogon/pkg/logger"
)

// Resolver is the read-only contract the sale-consumption engine depends
// on: product ids in, ingredient sets out. No side effects.
type Resolver interface {
	Resolve(ctx context.Context, productIDs []id.ID) (map[id.ID][]Ingredient, error)
}

// Service provides recipe resolution and maintenance.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

var _ Resolver = (*Service)(nil)

// NewService creates a new recipe service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{repo: repo, txManager: txManager, auditor: auditor}
}

// Resolve maps each product id to its ingredient set. Products without a
// saved recipe map to an empty set: no consumption, no error.
func (s *Service) Resolve(ctx context.Context, productIDs []id.ID) (map[id.ID][]Ingredient, error) {
	result := make(map[id.ID][]Ingredient, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	resolved, err := s.repo.GetIngredientsByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve recipes: %w", err)
	}

	for _, productID := range productIDs {
		if ingredients, ok := resolved[productID]; ok {
			result[productID] = ingredients
		} else {
			result[productID] = nil
		}
	}
	return result, nil
}

// Save stores a product's recipe, creating the recipe header lazily on
// first save and fully replacing the ingredient set every time.
func (s *Service) Save(ctx context.Context, productID id.ID, inputs []IngredientInput) error {
	if id.IsNil(productID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	for _, in := range inputs {
		if err := in.Validate(ctx); err != nil {
			return err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		recipe, err := s.repo.GetByProductID(ctx, productID)
		if apperror.IsNotFound(err) {
			recipe = &Recipe{ID: id.New(), ProductID: productID, CreatedAt: time.Now().UTC()}
			if err := s.repo.Create(ctx, recipe); err != nil {
				return fmt.Errorf("create recipe: %w", err)
			}
		} else if err != nil {
			return err
		}

		ingredients := make([]Ingredient, 0, len(inputs))
		for _, in := range inputs {
			ingredients = append(ingredients, Ingredient{
				ID:              id.New(),
				RecipeID:        recipe.ID,
				InventoryItemID: in.InventoryItemID,
				Quantity:        in.Quantity,
			})
		}

		if err := s.repo.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
			return fmt.Errorf("replace ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if auditErr := s.auditor.Record(ctx, "recipe", productID, audit.ActionRecipeSaved, map[string]any{
		"ingredients": len(inputs),
	}); auditErr != nil {
		logger.Warn(ctx, "audit record failed", "error", auditErr)
	}

	logger.Info(ctx, "recipe saved", "product_id", productID, "ingredients", len(inputs))
	return nil
}

// Get returns a product's recipe with its ingredient set, or NotFound.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Recipe, []Ingredient, error) {
	recipe, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.repo.GetIngredients(ctx, recipe.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get ingredients: %w", err)
	}
	return recipe, ingredients, nil
}
