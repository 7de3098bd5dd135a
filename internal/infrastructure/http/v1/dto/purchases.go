package dto

import (
	"github.com/shopspring/decimal"
)

// PurchaseLineRequest is one raw receipt line.
type PurchaseLineRequest struct {
	Name     string          `json:"name" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	// Price is the total paid for this line, not a unit price.
	Price decimal.Decimal `json:"price"`
}

// BulkPurchaseRequest reconciles one receipt.
type BulkPurchaseRequest struct {
	Lines      []PurchaseLineRequest `json:"lines" binding:"required"`
	Supplier   *string               `json:"supplier"`
	ReceiptRef *string               `json:"receiptRef"`
}

// BulkPurchaseResponse reports the reconciled batch.
type BulkPurchaseResponse struct {
	Purchases int `json:"purchases"`
}
