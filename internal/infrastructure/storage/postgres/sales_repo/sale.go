// Package sales_repo provides the PostgreSQL implementation for the sale
// repository.
package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/sales"
	"fogon/internal/infrastructure/storage/postgres"
)

const (
	saleTable     = "sales"
	saleItemTable = "sale_items"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var saleColumns = []string{
	"id", "actor_id", "total", "payment_method", "notes", "exchange_rate", "created_at",
}

var saleItemColumns = []string{
	"id", "sale_id", "product_id", "name", "quantity", "unit_price", "subtotal",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txManager *postgres.TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txManager: txManager}
}

// Create inserts the sale header and all of its lines.
func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	q := r.txManager.GetQuerier(ctx)

	headSQL, headArgs, err := psql.Insert(saleTable).
		Columns(saleColumns...).
		Values(sale.ID, sale.ActorID, sale.Total, sale.PaymentMethod,
			sale.Notes, sale.ExchangeRate, sale.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build header insert: %w", err)
	}
	if _, err := q.Exec(ctx, headSQL, headArgs...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if len(sale.Items) == 0 {
		return nil
	}

	builder := psql.Insert(saleItemTable).Columns(saleItemColumns...)
	for _, item := range sale.Items {
		builder = builder.Values(item.ID, item.SaleID, item.ProductID,
			item.Name, item.Quantity, item.UnitPrice, item.Subtotal)
	}

	itemSQL, itemArgs, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build lines insert: %w", err)
	}
	if _, err := q.Exec(ctx, itemSQL, itemArgs...); err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}
	return nil
}

// GetByID returns a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	sql, args, err := psql.Select(saleColumns...).
		From(saleTable).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("query sale: %w", err)
	}

	lineSQL, lineArgs, err := psql.Select(saleItemColumns...).
		From(saleItemTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &sale.Items, lineSQL, lineArgs...); err != nil {
		return nil, fmt.Errorf("query sale lines: %w", err)
	}
	return &sale, nil
}

// List returns sales newest first, without lines.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*sales.Sale, error) {
	builder := psql.Select(saleColumns...).
		From(saleTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*sales.Sale
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return result, nil
}
