// Package finance records money movements that happen outside the sales
// flow: operating expenses, partner capital movements and uploaded bank
// statements.
package finance

import (
	"time"

	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// PurchaseExpenseCategory labels expense rows derived from inventory
// purchase history in the overview.
const PurchaseExpenseCategory = "Materia Prima"

// Expense is one operating expense (rent, services, supplies).
type Expense struct {
	ID          id.ID       `db:"id" json:"id"`
	Category    string      `db:"category" json:"category"`
	Description string      `db:"description" json:"description"`
	Amount      types.Money `db:"amount" json:"amount"`
	ReceiptRef  *string     `db:"receipt_ref" json:"receiptRef,omitempty"`
	ActorID     string      `db:"actor_id" json:"actorId"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Investment is capital a partner puts into the business.
type Investment struct {
	ID          id.ID       `db:"id" json:"id"`
	PartnerName string      `db:"partner_name" json:"partnerName"`
	Amount      types.Money `db:"amount" json:"amount"`
	Kind        string      `db:"kind" json:"kind"`
	Description *string     `db:"description" json:"description,omitempty"`
	ProofRef    *string     `db:"proof_ref" json:"proofRef,omitempty"`
	ActorID     string      `db:"actor_id" json:"actorId"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Withdrawal is capital a partner takes out of the business.
type Withdrawal struct {
	ID          id.ID       `db:"id" json:"id"`
	PartnerName string      `db:"partner_name" json:"partnerName"`
	Amount      types.Money `db:"amount" json:"amount"`
	Concept     string      `db:"concept" json:"concept"`
	ActorID     string      `db:"actor_id" json:"actorId"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// BankStatement references an uploaded monthly bank statement.
type BankStatement struct {
	ID         id.ID     `db:"id" json:"id"`
	Month      int       `db:"month" json:"month"`
	Year       int       `db:"year" json:"year"`
	Bank       string    `db:"bank" json:"bank"`
	FileRef    string    `db:"file_ref" json:"fileRef"`
	ActorID    string    `db:"actor_id" json:"actorId"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// Overview is the finance dashboard payload. Expenses include rows
// projected from inventory purchases so all spending shows in one list.
type Overview struct {
	Expenses    []Expense    `json:"expenses"`
	Investments []Investment `json:"investments"`
	Withdrawals []Withdrawal `json:"withdrawals"`
}
