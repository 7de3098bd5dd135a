package dto

import (
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one ticket line. ProductRef is a catalog product id
// or a "custom-" reference for off-menu lines.
type SaleLineRequest struct {
	ProductRef string          `json:"productRef" binding:"required"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// CreateSaleRequest creates a ticket.
type CreateSaleRequest struct {
	Lines         []SaleLineRequest `json:"lines" binding:"required"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Notes         *string           `json:"notes"`
	ExchangeRate  *decimal.Decimal  `json:"exchangeRate"`
}

// CreateSaleResponse reports the created sale and whether consumption
// bookkeeping succeeded.
type CreateSaleResponse struct {
	ID                 string          `json:"id"`
	Total              decimal.Decimal `json:"total"`
	ConsumptionApplied bool            `json:"consumptionApplied"`
	Warning            *ErrorResponse  `json:"warning,omitempty"`
}
