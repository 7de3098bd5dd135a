// Package inventory provides the inventory ledger: the canonical store of
// ingredient items, their stock, thresholds and last known unit cost.
package inventory

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// DefaultUnit is assigned to items created by the bulk-purchase reconciler.
const DefaultUnit = "Unidad"

// FallbackCategoryName is the category assigned to brand-new items created
// during bulk-purchase reconciliation.
const FallbackCategoryName = "OTROS"

// Category groups inventory items (SALSAS, PROTEÍNAS, OTROS, ...).
type Category struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Item is one ingredient/consumable in the ledger. Stock is best-effort
// tracking, not a hard reservation system: recipe consumption may push
// CurrentStock transiently negative.
type Item struct {
	ID           id.ID          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Unit         string         `db:"unit" json:"unit"`
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`
	MinStock     types.Quantity `db:"min_stock" json:"minStock"`
	LastCost     types.Money    `db:"last_cost" json:"lastCost"`
	Active       bool           `db:"active" json:"active"`
	CategoryID   id.ID          `db:"category_id" json:"categoryId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an item with reconciler defaults: zero stock, the default
// unit, and the configured minimum threshold.
func NewItem(name string, categoryID id.ID, minStock types.Quantity) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:           id.New(),
		Name:         NormalizeName(name),
		Unit:         DefaultUnit,
		CurrentStock: decimal.Zero,
		MinStock:     minStock,
		LastCost:     decimal.Zero,
		Active:       true,
		CategoryID:   categoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsLowStock reports whether the item needs replenishment attention.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStock)
}

// Validate implements basic field validation.
func (i *Item) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}
	if i.MinStock.IsNegative() {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}
	if i.LastCost.IsNegative() {
		return apperror.NewValidation("last cost cannot be negative").
			WithDetail("field", "lastCost")
	}
	return nil
}

// NormalizeName produces the canonical item name used for matching:
// trimmed, first rune upper-cased, remainder lower-cased. "  tomate " and
// "TOMATE" both normalize to "Tomate".
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	runes := []rune(strings.ToLower(trimmed))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
