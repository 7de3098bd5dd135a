package purchasing

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
	"fogon/pkg/logger"
)

// ReconcilerConfig holds reconciler tuning knobs.
type ReconcilerConfig struct {
	// DefaultMinStock is the low-stock threshold assigned to ledger items
	// the reconciler auto-creates from unknown receipt names.
	DefaultMinStock types.Quantity
}

// DefaultReconcilerConfig returns the default configuration.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		DefaultMinStock: types.NewQuantityFromInt(5),
	}
}

// Reconciler ingests bulk purchase batches: it validates and deduplicates
// raw receipt lines, auto-creates unknown ledger items under the fallback
// category, records purchase history and increments stock, all inside one
// transaction with the extended bulk budget.
type Reconciler struct {
	purchases  Repository
	items      inventory.Repository
	categories inventory.CategoryRepository
	txManager  tx.Manager
	auditor    audit.Recorder
	config     ReconcilerConfig
}

// NewReconciler creates a bulk purchase reconciler.
func NewReconciler(purchases Repository, items inventory.Repository, categories inventory.CategoryRepository, txManager tx.Manager, auditor audit.Recorder, config ReconcilerConfig) *Reconciler {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Reconciler{
		purchases:  purchases,
		items:      items,
		categories: categories,
		txManager:  txManager,
		auditor:    auditor,
		config:     config,
	}
}

// Reconcile processes one bulk batch. All-or-nothing: a failure anywhere
// rolls back purchases, stock increments and any auto-created items.
func (r *Reconciler) Reconcile(ctx context.Context, input BulkInput) ([]*Purchase, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidation("at least one purchase line is required")
	}

	// Validate every line before touching storage. Error details carry the
	// 1-based line number so the caller can point at the offending row.
	for i, line := range input.Lines {
		if line.Name == "" || inventory.NormalizeName(line.Name) == "" {
			return nil, apperror.NewValidation("purchase line has an empty name").
				WithDetail("line", i+1)
		}
		if !line.Quantity.IsPositive() {
			return nil, apperror.NewValidation("purchase quantity must be positive").
				WithDetail("line", i+1).WithDetail("name", line.Name)
		}
		if line.Price.IsNegative() {
			return nil, apperror.NewValidation("purchase price cannot be negative").
				WithDetail("line", i+1).WithDetail("name", line.Name)
		}
	}

	merged := dedupeLines(input.Lines)

	actorID := appctx.GetActorID(ctx)
	now := time.Now().UTC()
	created := make([]*Purchase, 0, len(merged))

	err := r.txManager.RunInBulkTransaction(ctx, func(ctx context.Context) error {
		category, err := r.ensureFallbackCategory(ctx)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(merged))
		for _, line := range merged {
			names = append(names, line.Name)
		}

		existing, err := r.items.FindByNames(ctx, names)
		if err != nil {
			return apperror.NewTransactionFailure(fmt.Errorf("find items: %w", err))
		}
		byName := make(map[string]*inventory.Item, len(existing))
		for _, it := range existing {
			byName[it.Name] = it
		}

		var missing []*inventory.Item
		for _, line := range merged {
			if _, ok := byName[line.Name]; !ok {
				missing = append(missing, inventory.NewItem(line.Name, category.ID, r.config.DefaultMinStock))
			}
		}
		if len(missing) > 0 {
			if err := r.items.CreateMissing(ctx, missing); err != nil {
				return apperror.NewTransactionFailure(fmt.Errorf("create items: %w", err))
			}
			// Re-read instead of trusting our generated ids: a concurrent
			// batch may have won the create-or-skip race for some names.
			existing, err = r.items.FindByNames(ctx, names)
			if err != nil {
				return apperror.NewTransactionFailure(fmt.Errorf("reload items: %w", err))
			}
			byName = make(map[string]*inventory.Item, len(existing))
			for _, it := range existing {
				byName[it.Name] = it
			}
		}

		increments := make(map[id.ID]types.Quantity, len(merged))
		purchases := make([]*Purchase, 0, len(merged))
		for _, line := range merged {
			item, ok := byName[line.Name]
			if !ok {
				return apperror.NewResolution(line.Name)
			}
			purchases = append(purchases, &Purchase{
				ID:         id.New(),
				ItemID:     item.ID,
				Quantity:   line.Quantity,
				Price:      line.Price,
				Supplier:   input.Supplier,
				ReceiptRef: input.ReceiptRef,
				ActorID:    actorID,
				CreatedAt:  now,
			})
			increments[item.ID] = line.Quantity
		}

		if err := r.purchases.CreateBatch(ctx, purchases); err != nil {
			return apperror.NewTransactionFailure(fmt.Errorf("record purchases: %w", err))
		}
		if err := r.items.BulkIncrementStock(ctx, increments); err != nil {
			return apperror.NewTransactionFailure(fmt.Errorf("increment stock: %w", err))
		}

		created = purchases
		return nil
	})
	if err != nil {
		return nil, err
	}

	// One audit entry for the whole batch; the store compresses large
	// payloads, so even receipts with hundreds of lines stay a single row.
	auditLines := make([]map[string]any, 0, len(created))
	for _, p := range created {
		auditLines = append(auditLines, map[string]any{
			"itemId":   p.ItemID,
			"quantity": p.Quantity,
			"price":    p.Price,
		})
	}
	if auditErr := r.auditor.Record(ctx, "purchase_batch", id.New(), audit.ActionBulkPurchase, map[string]any{
		"supplier":   input.Supplier,
		"receiptRef": input.ReceiptRef,
		"count":      len(created),
		"purchases":  auditLines,
	}); auditErr != nil {
		logger.Warn(ctx, "audit record failed", "error", auditErr)
	}

	logger.Info(ctx, "bulk purchase reconciled",
		"lines", len(input.Lines), "merged", len(merged))
	return created, nil
}

// ensureFallbackCategory resolves the category new items are filed under:
// the well-known fallback by name, else any existing category, else a
// freshly created fallback. Failing all three aborts the batch.
func (r *Reconciler) ensureFallbackCategory(ctx context.Context) (*inventory.Category, error) {
	category, err := r.categories.FindByName(ctx, inventory.FallbackCategoryName)
	if err == nil {
		return category, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, apperror.NewTransactionFailure(fmt.Errorf("find fallback category: %w", err))
	}

	category, err = r.categories.First(ctx)
	if err == nil {
		return category, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, apperror.NewTransactionFailure(fmt.Errorf("pick category: %w", err))
	}

	category = &inventory.Category{
		ID:        id.New(),
		Name:      inventory.FallbackCategoryName,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.categories.Create(ctx, category); err != nil {
		logger.Error(ctx, "failed to create fallback category", "error", err)
		return nil, apperror.NewNoCategoryAvailable()
	}
	return category, nil
}

// History returns purchase records, newest first.
func (r *Reconciler) History(ctx context.Context, limit, offset int) ([]*Purchase, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.purchases.List(ctx, limit, offset)
}

// ItemHistory returns purchase records for one ledger item.
func (r *Reconciler) ItemHistory(ctx context.Context, itemID id.ID, limit int) ([]*Purchase, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.purchases.ListByItem(ctx, itemID, limit)
}

// dedupeLines normalizes names and merges duplicate lines, summing both
// quantity and price, preserving first-seen order.
func dedupeLines(lines []Line) []normalizedLine {
	index := make(map[string]int, len(lines))
	merged := make([]normalizedLine, 0, len(lines))
	for _, line := range lines {
		name := inventory.NormalizeName(line.Name)
		if pos, ok := index[name]; ok {
			merged[pos].Quantity = merged[pos].Quantity.Add(line.Quantity)
			merged[pos].Price = merged[pos].Price.Add(line.Price)
			continue
		}
		index[name] = len(merged)
		merged = append(merged, normalizedLine{
			Name:     name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return merged
}
