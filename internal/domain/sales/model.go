// Package sales records point-of-sale tickets and drives ingredient
// consumption against the inventory ledger.
package sales

import (
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "CASH"
	PaymentTransfer      PaymentMethod = "TRANSFER"
	PaymentMobilePayment PaymentMethod = "MOBILE_PAYMENT"
)

// Valid reports whether the payment method is a known value.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentTransfer, PaymentMobilePayment:
		return true
	}
	return false
}

// Sale is one completed ticket. ExchangeRate snapshots the USD/VES rate
// at sale time when the client provides one.
type Sale struct {
	ID            id.ID            `db:"id" json:"id"`
	ActorID       string           `db:"actor_id" json:"actorId"`
	Total         types.Money      `db:"total" json:"total"`
	PaymentMethod PaymentMethod    `db:"payment_method" json:"paymentMethod"`
	Notes         *string          `db:"notes" json:"notes,omitempty"`
	ExchangeRate  *decimal.Decimal `db:"exchange_rate" json:"exchangeRate,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`

	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem is one ticket line. ProductID is nil for custom lines, which
// carry a free-text name and never consume inventory.
type SaleItem struct {
	ID        id.ID          `db:"id" json:"id"`
	SaleID    id.ID          `db:"sale_id" json:"saleId"`
	ProductID *id.ID         `db:"product_id" json:"productId,omitempty"`
	Name      string         `db:"name" json:"name"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	Subtotal  types.Money    `db:"subtotal" json:"subtotal"`
}

// LineInput is one requested ticket line. ProductRef is either a catalog
// product id or a "custom-" reference for off-menu lines.
type LineInput struct {
	ProductRef string         `json:"productRef"`
	Name       string         `json:"name"`
	Quantity   types.Quantity `json:"quantity"`
	UnitPrice  types.Money    `json:"unitPrice"`
}

// Validate checks a single line.
func (l LineInput) Validate() error {
	if l.ProductRef == "" {
		return apperror.NewValidation("product reference is required")
	}
	if !l.Quantity.IsPositive() {
		return apperror.NewValidation("line quantity must be positive").
			WithDetail("productRef", l.ProductRef)
	}
	if l.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("productRef", l.ProductRef)
	}
	if id.IsCustomLine(l.ProductRef) && l.Name == "" {
		return apperror.NewValidation("custom lines require a name").
			WithDetail("productRef", l.ProductRef)
	}
	return nil
}

// CreateInput is one ticket creation request.
type CreateInput struct {
	Lines         []LineInput      `json:"lines"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Notes         *string          `json:"notes,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// Validate checks the whole request.
func (in CreateInput) Validate() error {
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one line is required")
	}
	if !in.PaymentMethod.Valid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", string(in.PaymentMethod))
	}
	for _, l := range in.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
