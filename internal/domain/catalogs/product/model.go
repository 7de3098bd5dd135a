// Package product provides the sellable-product catalog. Products are what
// appears on the menu; their ingredient composition lives in recipes.
package product

import (
	"context"
	"strings"
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Product represents one sellable menu entry.
type Product struct {
	ID        id.ID       `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Category  string      `db:"category" json:"category"`
	Price     types.Money `db:"price" json:"price"`
	Active    bool        `db:"active" json:"active"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates an active product.
func NewProduct(name, category string, price types.Money) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        id.New(),
		Name:      name,
		Category:  category,
		Price:     price,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate implements basic field validation.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	return nil
}
