package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/id"
	"fogon/internal/domain/purchasing"
	"fogon/internal/infrastructure/storage/postgres"
)

const purchaseTable = "inv_purchases"

var purchaseColumns = []string{
	"id", "item_id", "quantity", "price", "supplier", "receipt_ref",
	"actor_id", "created_at",
}

// PurchaseRepo implements purchasing.Repository.
type PurchaseRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// NewPurchaseRepo creates a new purchase-history repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

// Create inserts a single purchase record.
func (r *PurchaseRepo) Create(ctx context.Context, p *purchasing.Purchase) error {
	sql, args, err := psql.Insert(purchaseTable).
		Columns(purchaseColumns...).
		Values(p.ID, p.ItemID, p.Quantity, p.Price, p.Supplier, p.ReceiptRef,
			p.ActorID, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateBatch bulk-inserts purchase records via COPY. Called inside the
// bulk-purchase transaction, so the COPY rolls back with everything else.
func (r *PurchaseRepo) CreateBatch(ctx context.Context, purchases []*purchasing.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, []any{
			p.ID, p.ItemID, p.Quantity, p.Price, p.Supplier, p.ReceiptRef,
			p.ActorID, p.CreatedAt,
		})
	}

	inserted, err := r.batch.CopyFromSlice(ctx, purchaseTable, purchaseColumns, rows)
	if err != nil {
		return fmt.Errorf("copy purchases: %w", err)
	}
	if int(inserted) != len(purchases) {
		return fmt.Errorf("expected %d purchases inserted, got %d", len(purchases), inserted)
	}
	return nil
}

// List returns purchase history, newest first.
func (r *PurchaseRepo) List(ctx context.Context, limit, offset int) ([]*purchasing.Purchase, error) {
	builder := psql.Select(purchaseColumns...).
		From(purchaseTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var purchases []*purchasing.Purchase
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// ListByItem returns purchase history for one ledger item.
func (r *PurchaseRepo) ListByItem(ctx context.Context, itemID id.ID, limit int) ([]*purchasing.Purchase, error) {
	sql, args, err := psql.Select(purchaseColumns...).
		From(purchaseTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var purchases []*purchasing.Purchase
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchases by item: %w", err)
	}
	return purchases, nil
}
