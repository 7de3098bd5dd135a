// Package shopping maintains the replenishment list: open "needs to be
// purchased" entries accumulated by sale consumption and closed by
// purchase confirmations.
package shopping

import (
	"context"
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Item is one open replenishment need. At most one open entry exists per
// inventory item; repeated demand accumulates into the same row.
type Item struct {
	ID              id.ID          `db:"id" json:"id"`
	InventoryItemID id.ID          `db:"inventory_item_id" json:"inventoryItemId"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
	// EstimatedPrice is a unit-cost snapshot taken from the ingredient's
	// last known cost when the entry was opened. Display guidance only.
	EstimatedPrice types.Money `db:"estimated_price" json:"estimatedPrice"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// OpenEntry is an open item joined with ledger display fields.
type OpenEntry struct {
	Item
	ItemName string      `db:"item_name" json:"itemName"`
	ItemUnit string      `db:"item_unit" json:"itemUnit"`
	LastCost types.Money `db:"last_cost" json:"lastCost"`
}

// Confirmation is one confirmed purchase against an open entry. The
// supplied quantity is authoritative for both the purchase record and the
// stock increment, even when it differs from the outstanding amount.
type Confirmation struct {
	ShoppingItemID id.ID          `json:"shoppingItemId"`
	Quantity       types.Quantity `json:"quantity"`
	TotalPrice     types.Money    `json:"totalPrice"`
}

// Validate checks a confirmation line.
func (c Confirmation) Validate(ctx context.Context) error {
	if id.IsNil(c.ShoppingItemID) {
		return apperror.NewValidation("shopping item id is required").
			WithDetail("field", "shoppingItemId")
	}
	if !c.Quantity.IsPositive() {
		return apperror.NewValidation("confirmation quantity must be positive").
			WithDetail("shoppingItemId", c.ShoppingItemID)
	}
	if c.TotalPrice.IsNegative() {
		return apperror.NewValidation("confirmation price cannot be negative").
			WithDetail("shoppingItemId", c.ShoppingItemID)
	}
	return nil
}
