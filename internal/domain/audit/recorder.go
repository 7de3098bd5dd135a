// Package audit defines the operation audit trail contract.
package audit

import (
	"context"

	"fogon/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionSaleCreated       Action = "sale_created"
	ActionConsumptionFailed Action = "consumption_failed"
	ActionBulkPurchase      Action = "bulk_purchase"
	ActionShoppingConfirmed Action = "shopping_confirmed"
	ActionShoppingRemoved   Action = "shopping_removed"
	ActionRecipeSaved       Action = "recipe_saved"
)

// Recorder persists audit entries. Implementations must tolerate being
// called both inside and outside a transaction; audit failures should be
// logged by callers, never turned into operation failures.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload map[string]any) error
}

// Nop is a Recorder that discards entries. Used in tests and in wiring
// paths where auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, string, id.ID, Action, map[string]any) error { return nil }
