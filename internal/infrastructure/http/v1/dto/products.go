package dto

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a menu entry.
type CreateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateProductRequest updates a menu entry.
type UpdateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Active   *bool           `json:"active"`
}
