package handlers

import (
	"github.com/gin-gonic/gin"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/recipes"
	"fogon/internal/infrastructure/http/v1/dto"
)

// RecipeHandler handles recipe endpoints.
type RecipeHandler struct {
	*BaseHandler
	service *recipes.Service
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(base *BaseHandler, service *recipes.Service) *RecipeHandler {
	return &RecipeHandler{BaseHandler: base, service: service}
}

// Get handles GET /products/:id/recipe.
func (h *RecipeHandler) Get(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	recipe, ingredients, err := h.service.Get(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{
		"recipe":      recipe,
		"ingredients": ingredients,
	})
}

// Save handles PUT /products/:id/recipe.
func (h *RecipeHandler) Save(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	var req dto.SaveRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs := make([]recipes.IngredientInput, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		itemID, err := id.Parse(ing.InventoryItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid inventory item id").
				WithDetail("inventoryItemId", ing.InventoryItemID))
			return
		}
		inputs = append(inputs, recipes.IngredientInput{
			InventoryItemID: itemID,
			Quantity:        ing.Quantity,
		})
	}

	if err := h.service.Save(c.Request.Context(), productID, inputs); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "recipe saved")
}
