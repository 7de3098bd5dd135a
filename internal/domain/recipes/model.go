// Package recipes maps sellable products to their bill of materials.
package recipes

import (
	"context"
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Recipe links one product to its ingredient set. A product has at most
// one recipe; it is created lazily on first save.
type Recipe struct {
	ID        id.ID     `db:"id" json:"id"`
	ProductID id.ID     `db:"product_id" json:"productId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Ingredient is one row of a recipe: an inventory item and the quantity
// consumed per sold unit of the product.
type Ingredient struct {
	ID              id.ID          `db:"id" json:"id"`
	RecipeID        id.ID          `db:"recipe_id" json:"recipeId"`
	InventoryItemID id.ID          `db:"inventory_item_id" json:"inventoryItemId"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
}

// IngredientInput is a save request line.
type IngredientInput struct {
	InventoryItemID id.ID          `json:"inventoryItemId"`
	Quantity        types.Quantity `json:"quantity"`
}

// Validate checks a save request line.
func (in IngredientInput) Validate(ctx context.Context) error {
	if id.IsNil(in.InventoryItemID) {
		return apperror.NewValidation("ingredient inventory item is required").
			WithDetail("field", "inventoryItemId")
	}
	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("ingredient quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("inventoryItemId", in.InventoryItemID)
	}
	return nil
}
