package shopping

import (
	"context"
	"fmt"
	"time"

	"fogon/internal/core/apperror"
	appctx "fogon/internal/core/context"
	"fogon/internal/core/id"
	"fogon/internal/core/tx"
	"fogon/internal/core/types"
	"fogon/internal/domain/audit"
	"fogon/internal/domain/inventory"
	"fogon/internal/domain/purchasing"
	"fogon/pkg/logger"
)

// Manager operates the replenishment list: listing open needs, confirming
// purchases against them and removing stale entries.
type Manager struct {
	repo      Repository
	items     inventory.Repository
	purchases purchasing.Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewManager creates a replenishment list manager.
func NewManager(repo Repository, items inventory.Repository, purchases purchasing.Repository, txManager tx.Manager, auditor audit.Recorder) *Manager {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Manager{
		repo:      repo,
		items:     items,
		purchases: purchases,
		txManager: txManager,
		auditor:   auditor,
	}
}

// ListOpen returns every open entry with its ledger display fields.
func (m *Manager) ListOpen(ctx context.Context) ([]OpenEntry, error) {
	entries, err := m.repo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	return entries, nil
}

// Confirm applies a batch of purchase confirmations atomically. For each
// confirmed entry it records a purchase, increments stock by the supplied
// quantity, moves the item's last cost to totalPrice/quantity and removes
// the entry from the list entirely. Partial receipt is not modeled: any
// confirmation closes its entry, and a remaining need is re-created by
// subsequent sales.
func (m *Manager) Confirm(ctx context.Context, confirmations []Confirmation, supplier *string) ([]*purchasing.Purchase, error) {
	if len(confirmations) == 0 {
		return nil, apperror.NewValidation("at least one confirmation is required")
	}
	for _, c := range confirmations {
		if err := c.Validate(ctx); err != nil {
			return nil, err
		}
	}

	ids := make([]id.ID, 0, len(confirmations))
	for _, c := range confirmations {
		ids = append(ids, c.ShoppingItemID)
	}

	actorID := appctx.GetActorID(ctx)
	now := time.Now().UTC()
	created := make([]*purchasing.Purchase, 0, len(confirmations))

	err := m.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entries, err := m.repo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("fetch entries: %w", err)
		}
		byID := make(map[id.ID]*Item, len(entries))
		for _, e := range entries {
			byID[e.ID] = e
		}

		for _, c := range confirmations {
			entry, ok := byID[c.ShoppingItemID]
			if !ok {
				return apperror.NewNotFound("shopping item", c.ShoppingItemID.String())
			}

			unitCost := c.TotalPrice.Div(c.Quantity)
			purchase := &purchasing.Purchase{
				ID:        id.New(),
				ItemID:    entry.InventoryItemID,
				Quantity:  c.Quantity,
				Price:     c.TotalPrice,
				Supplier:  supplier,
				ActorID:   actorID,
				CreatedAt: now,
			}
			if err := m.purchases.Create(ctx, purchase); err != nil {
				return fmt.Errorf("record purchase: %w", err)
			}
			if err := m.items.ApplyPurchase(ctx, entry.InventoryItemID, c.Quantity, unitCost); err != nil {
				return fmt.Errorf("apply purchase to ledger: %w", err)
			}
			if err := m.repo.Delete(ctx, entry.ID); err != nil {
				return fmt.Errorf("close entry: %w", err)
			}
			created = append(created, purchase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range created {
		if auditErr := m.auditor.Record(ctx, "shopping_item", p.ItemID, audit.ActionShoppingConfirmed, map[string]any{
			"quantity": p.Quantity,
			"price":    p.Price,
		}); auditErr != nil {
			logger.Warn(ctx, "audit record failed", "error", auditErr)
		}
	}

	logger.Info(ctx, "purchases confirmed", "count", len(created))
	return created, nil
}

// Remove deletes an open entry without purchasing it.
func (m *Manager) Remove(ctx context.Context, itemID id.ID) error {
	if id.IsNil(itemID) {
		return apperror.NewValidation("shopping item id is required")
	}
	if err := m.repo.Delete(ctx, itemID); err != nil {
		return err
	}
	if auditErr := m.auditor.Record(ctx, "shopping_item", itemID, audit.ActionShoppingRemoved, nil); auditErr != nil {
		logger.Warn(ctx, "audit record failed", "error", auditErr)
	}
	return nil
}

// AccumulateDemand opens or grows the entry for an inventory item. The
// estimated unit cost only applies when the entry is first created.
func (m *Manager) AccumulateDemand(ctx context.Context, inventoryItemID id.ID, demand types.Quantity, estimatedCost types.Money) error {
	if !demand.IsPositive() {
		return apperror.NewValidation("demand must be positive").
			WithDetail("inventoryItemId", inventoryItemID)
	}
	return m.repo.UpsertDemand(ctx, inventoryItemID, demand, estimatedCost)
}
