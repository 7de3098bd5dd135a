package dto

import (
	"github.com/shopspring/decimal"
)

// ConfirmationRequest is one confirmed purchase against an open entry.
type ConfirmationRequest struct {
	ShoppingItemID string          `json:"shoppingItemId" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
}

// ConfirmPurchasesRequest closes entries on the replenishment list.
type ConfirmPurchasesRequest struct {
	Confirmations []ConfirmationRequest `json:"confirmations" binding:"required"`
	Supplier      *string               `json:"supplier"`
}
