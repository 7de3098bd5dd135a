package dto

import (
	"github.com/shopspring/decimal"
)

// CreateItemRequest creates a ledger item by hand.
type CreateItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Unit       string          `json:"unit"`
	CategoryID string          `json:"categoryId" binding:"required"`
	MinStock   decimal.Decimal `json:"minStock"`
	LastCost   decimal.Decimal `json:"lastCost"`
}

// UpdateItemRequest updates a ledger item's descriptive fields.
type UpdateItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Unit       string          `json:"unit"`
	CategoryID string          `json:"categoryId" binding:"required"`
	MinStock   decimal.Decimal `json:"minStock"`
	LastCost   decimal.Decimal `json:"lastCost"`
	Active     *bool           `json:"active"`
}

// CreateCategoryRequest creates an inventory category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}
