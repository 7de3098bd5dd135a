package dto

import (
	"github.com/shopspring/decimal"
)

// RecipeIngredientRequest is one line of a recipe save.
type RecipeIngredientRequest struct {
	InventoryItemID string          `json:"inventoryItemId" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// SaveRecipeRequest replaces a product's ingredient set.
type SaveRecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"required"`
}
