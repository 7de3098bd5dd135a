package recipes

import (
	"context"

	"fogon/internal/core/id"
)

// Repository defines persistence operations for recipes.
type Repository interface {
	// GetByProductID returns the recipe for a product, or NotFound.
	GetByProductID(ctx context.Context, productID id.ID) (*Recipe, error)

	// Create inserts a new recipe header.
	Create(ctx context.Context, recipe *Recipe) error

	// GetIngredientsByProductIDs resolves ingredient sets for many
	// products in one round trip. Products without a recipe are simply
	// absent from the result.
	GetIngredientsByProductIDs(ctx context.Context, productIDs []id.ID) (map[id.ID][]Ingredient, error)

	// ReplaceIngredients deletes the recipe's current ingredient set and
	// inserts the new one. No incremental diffing.
	ReplaceIngredients(ctx context.Context, recipeID id.ID, ingredients []Ingredient) error

	// GetIngredients returns the ingredient set of one recipe.
	GetIngredients(ctx context.Context, recipeID id.ID) ([]Ingredient, error)
}
