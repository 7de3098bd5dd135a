package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestDefaultTxOptions(t *testing.T) {
	opts := DefaultTxOptions()

	if opts.IsolationLevel != pgx.ReadCommitted {
		t.Errorf("isolation = %v, want ReadCommitted", opts.IsolationLevel)
	}
	if opts.StatementTimeout <= 0 || opts.LockTimeout <= 0 {
		t.Error("both timeout budgets must be set")
	}
	if opts.LockTimeout >= opts.StatementTimeout {
		t.Error("lock budget must be tighter than the statement budget")
	}
}

func TestBulkTxOptions_LargerBudgets(t *testing.T) {
	def := DefaultTxOptions()
	bulk := BulkTxOptions()

	if bulk.StatementTimeout <= def.StatementTimeout {
		t.Errorf("bulk statement budget %v must exceed default %v", bulk.StatementTimeout, def.StatementTimeout)
	}
	if bulk.LockTimeout <= def.LockTimeout {
		t.Errorf("bulk lock budget %v must exceed default %v", bulk.LockTimeout, def.LockTimeout)
	}
}
