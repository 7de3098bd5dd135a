// Package purchasing records purchase history and reconciles bulk
// purchase batches into the inventory ledger.
package purchasing

import (
	"time"

	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// Purchase is an immutable historical record of one purchase event.
// Price is the total paid for the line, not a unit price. Rows are never
// mutated or deleted.
type Purchase struct {
	ID         id.ID          `db:"id" json:"id"`
	ItemID     id.ID          `db:"item_id" json:"itemId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	Price      types.Money    `db:"price" json:"price"`
	Supplier   *string        `db:"supplier" json:"supplier,omitempty"`
	ReceiptRef *string        `db:"receipt_ref" json:"receiptRef,omitempty"`
	ActorID    string         `db:"actor_id" json:"actorId"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

// Line is one raw purchase line from a receipt/batch. Names may be
// free-text, duplicated or fuzzily cased; the reconciler normalizes and
// deduplicates them before touching storage.
type Line struct {
	Name     string         `json:"name"`
	Quantity types.Quantity `json:"quantity"`
	// Price is the cost of this purchase line (total, not unit price), so
	// duplicate lines can be summed whether they represent a re-entry or a
	// second batch of the same good.
	Price types.Money `json:"price"`
}

// BulkInput is one reconciliation request: all lines of a single receipt.
type BulkInput struct {
	Lines      []Line  `json:"lines"`
	ReceiptRef *string `json:"receiptRef,omitempty"`
	Supplier   *string `json:"supplier,omitempty"`
}

// normalizedLine is a deduplicated line keyed by canonical name.
type normalizedLine struct {
	Name     string
	Quantity types.Quantity
	Price    types.Money
}
