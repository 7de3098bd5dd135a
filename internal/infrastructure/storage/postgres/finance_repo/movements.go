// Package finance_repo provides the PostgreSQL implementation for the
// finance-movement repository.
package finance_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/domain/finance"
	"fogon/internal/infrastructure/storage/postgres"
)

const (
	expenseTable    = "fin_expenses"
	investmentTable = "fin_investments"
	withdrawalTable = "fin_withdrawals"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var expenseColumns = []string{
	"id", "category", "description", "amount", "receipt_ref", "actor_id", "created_at",
}

var investmentColumns = []string{
	"id", "partner_name", "amount", "kind", "description", "proof_ref", "actor_id", "created_at",
}

var withdrawalColumns = []string{
	"id", "partner_name", "amount", "concept", "actor_id", "created_at",
}

// FinanceRepo implements finance.Repository.
type FinanceRepo struct {
	txManager *postgres.TxManager
}

// NewFinanceRepo creates a new finance repository.
func NewFinanceRepo(txManager *postgres.TxManager) *FinanceRepo {
	return &FinanceRepo{txManager: txManager}
}

// CreateExpense inserts one expense row.
func (r *FinanceRepo) CreateExpense(ctx context.Context, expense *finance.Expense) error {
	sql, args, err := psql.Insert(expenseTable).
		Columns(expenseColumns...).
		Values(expense.ID, expense.Category, expense.Description, expense.Amount,
			expense.ReceiptRef, expense.ActorID, expense.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListExpenses returns expenses newest first.
func (r *FinanceRepo) ListExpenses(ctx context.Context, limit int) ([]finance.Expense, error) {
	sql, args, err := psql.Select(expenseColumns...).
		From(expenseTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var expenses []finance.Expense
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &expenses, sql, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// PurchaseExpenses projects inventory purchase history into expense rows
// so the overview shows raw-material spending next to operating expenses.
func (r *FinanceRepo) PurchaseExpenses(ctx context.Context, limit int) ([]finance.Expense, error) {
	sql, args, err := psql.Select(
		"p.id",
		"'"+finance.PurchaseExpenseCategory+"' AS category",
		"'Compra: ' || i.name || ' (Cant: ' || p.quantity::text || ')' AS description",
		"p.price AS amount",
		"p.receipt_ref",
		"p.actor_id",
		"p.created_at",
	).
		From("inv_purchases p").
		Join("inv_items i ON i.id = p.item_id").
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var expenses []finance.Expense
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &expenses, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchase expenses: %w", err)
	}
	return expenses, nil
}

// CreateInvestment inserts one partner investment row.
func (r *FinanceRepo) CreateInvestment(ctx context.Context, investment *finance.Investment) error {
	sql, args, err := psql.Insert(investmentTable).
		Columns(investmentColumns...).
		Values(investment.ID, investment.PartnerName, investment.Amount, investment.Kind,
			investment.Description, investment.ProofRef, investment.ActorID, investment.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// ListInvestments returns investments newest first.
func (r *FinanceRepo) ListInvestments(ctx context.Context, limit int) ([]finance.Investment, error) {
	sql, args, err := psql.Select(investmentColumns...).
		From(investmentTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var investments []finance.Investment
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &investments, sql, args...); err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return investments, nil
}

// CreateWithdrawal inserts one partner withdrawal row.
func (r *FinanceRepo) CreateWithdrawal(ctx context.Context, withdrawal *finance.Withdrawal) error {
	sql, args, err := psql.Insert(withdrawalTable).
		Columns(withdrawalColumns...).
		Values(withdrawal.ID, withdrawal.PartnerName, withdrawal.Amount,
			withdrawal.Concept, withdrawal.ActorID, withdrawal.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// ListWithdrawals returns withdrawals newest first.
func (r *FinanceRepo) ListWithdrawals(ctx context.Context, limit int) ([]finance.Withdrawal, error) {
	sql, args, err := psql.Select(withdrawalColumns...).
		From(withdrawalTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var withdrawals []finance.Withdrawal
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &withdrawals, sql, args...); err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return withdrawals, nil
}
