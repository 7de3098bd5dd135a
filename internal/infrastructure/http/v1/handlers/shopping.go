package handlers

import (
	"github.com/gin-gonic/gin"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/shopping"
	"fogon/internal/infrastructure/http/v1/dto"
)

// ShoppingHandler handles replenishment list endpoints.
type ShoppingHandler struct {
	*BaseHandler
	manager *shopping.Manager
}

// NewShoppingHandler creates a new shopping handler.
func NewShoppingHandler(base *BaseHandler, manager *shopping.Manager) *ShoppingHandler {
	return &ShoppingHandler{BaseHandler: base, manager: manager}
}

// List handles GET /shopping.
func (h *ShoppingHandler) List(c *gin.Context) {
	entries, err := h.manager.ListOpen(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}

// Confirm handles POST /shopping/confirm.
func (h *ShoppingHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmPurchasesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	confirmations := make([]shopping.Confirmation, 0, len(req.Confirmations))
	for _, conf := range req.Confirmations {
		itemID, err := id.Parse(conf.ShoppingItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopping item id").
				WithDetail("shoppingItemId", conf.ShoppingItemID))
			return
		}
		confirmations = append(confirmations, shopping.Confirmation{
			ShoppingItemID: itemID,
			Quantity:       conf.Quantity,
			TotalPrice:     conf.TotalPrice,
		})
	}

	purchases, err := h.manager.Confirm(c.Request.Context(), confirmations, req.Supplier)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"confirmed": len(purchases)})
}

// Remove handles DELETE /shopping/:id.
func (h *ShoppingHandler) Remove(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopping item id"))
		return
	}

	if err := h.manager.Remove(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
