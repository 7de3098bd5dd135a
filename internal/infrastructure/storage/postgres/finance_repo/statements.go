package finance_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/domain/finance"
)

const statementTable = "fin_statements"

var statementColumns = []string{
	"id", "month", "year", "bank", "file_ref", "actor_id", "uploaded_at",
}

// CreateStatement registers one uploaded bank statement.
func (r *FinanceRepo) CreateStatement(ctx context.Context, statement *finance.BankStatement) error {
	sql, args, err := psql.Insert(statementTable).
		Columns(statementColumns...).
		Values(statement.ID, statement.Month, statement.Year, statement.Bank,
			statement.FileRef, statement.ActorID, statement.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

// ListStatements returns statements newest upload first.
func (r *FinanceRepo) ListStatements(ctx context.Context) ([]finance.BankStatement, error) {
	sql, args, err := psql.Select(statementColumns...).
		From(statementTable).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var statements []finance.BankStatement
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &statements, sql, args...); err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	return statements, nil
}
