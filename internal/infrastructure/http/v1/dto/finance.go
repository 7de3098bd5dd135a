package dto

import (
	"github.com/shopspring/decimal"
)

// ExpenseRequest records an operating expense.
type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReceiptRef  *string         `json:"receiptRef"`
}

// InvestmentRequest records a partner capital contribution.
type InvestmentRequest struct {
	PartnerName string          `json:"partnerName" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Kind        string          `json:"kind" binding:"required"`
	Description *string         `json:"description"`
	ProofRef    *string         `json:"proofRef"`
}

// WithdrawalRequest records a partner capital withdrawal.
type WithdrawalRequest struct {
	PartnerName string          `json:"partnerName" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Concept     string          `json:"concept" binding:"required"`
}

// StatementRequest registers an uploaded bank statement.
type StatementRequest struct {
	Month   int    `json:"month" binding:"required"`
	Year    int    `json:"year" binding:"required"`
	Bank    string `json:"bank" binding:"required"`
	FileRef string `json:"fileRef" binding:"required"`
}
