package finance

import (
	"context"
)

// Repository defines persistence operations for finance movements.
type Repository interface {
	CreateExpense(ctx context.Context, expense *Expense) error
	ListExpenses(ctx context.Context, limit int) ([]Expense, error)

	// PurchaseExpenses projects inventory purchase history into expense
	// rows (category "Materia Prima") for the overview.
	PurchaseExpenses(ctx context.Context, limit int) ([]Expense, error)

	CreateInvestment(ctx context.Context, investment *Investment) error
	ListInvestments(ctx context.Context, limit int) ([]Investment, error)

	CreateWithdrawal(ctx context.Context, withdrawal *Withdrawal) error
	ListWithdrawals(ctx context.Context, limit int) ([]Withdrawal, error)

	CreateStatement(ctx context.Context, statement *BankStatement) error
	ListStatements(ctx context.Context) ([]BankStatement, error)
}
