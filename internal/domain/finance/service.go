package finance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fogon/internal/core/apperror"
	appctx "fogon/internal/core/context"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

// overviewLimit caps how many rows of each movement kind the dashboard
// shows.
const overviewLimit = 20

// ExpenseInput records one operating expense.
type ExpenseInput struct {
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
	ReceiptRef  *string     `json:"receiptRef,omitempty"`
}

// InvestmentInput records one partner contribution.
type InvestmentInput struct {
	PartnerName string      `json:"partnerName"`
	Amount      types.Money `json:"amount"`
	Kind        string      `json:"kind"`
	Description *string     `json:"description,omitempty"`
	ProofRef    *string     `json:"proofRef,omitempty"`
}

// WithdrawalInput records one partner withdrawal.
type WithdrawalInput struct {
	PartnerName string      `json:"partnerName"`
	Amount      types.Money `json:"amount"`
	Concept     string      `json:"concept"`
}

// StatementInput registers an uploaded bank statement.
type StatementInput struct {
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Bank    string `json:"bank"`
	FileRef string `json:"fileRef"`
}

// Service exposes finance-movement operations. The actor id is taken
// from the request context and stamped on every created row.
type Service struct {
	repo Repository
}

// NewService creates a finance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overview returns recent expenses, investments and withdrawals, each
// newest first. Inventory purchases are merged into the expense list as
// "Materia Prima" rows.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	expenses, err := s.repo.ListExpenses(ctx, overviewLimit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	purchaseRows, err := s.repo.PurchaseExpenses(ctx, overviewLimit)
	if err != nil {
		return nil, fmt.Errorf("list purchase expenses: %w", err)
	}
	investments, err := s.repo.ListInvestments(ctx, overviewLimit)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	withdrawals, err := s.repo.ListWithdrawals(ctx, overviewLimit)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}

	merged := make([]Expense, 0, len(expenses)+len(purchaseRows))
	merged = append(merged, expenses...)
	merged = append(merged, purchaseRows...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return &Overview{
		Expenses:    merged,
		Investments: investments,
		Withdrawals: withdrawals,
	}, nil
}

// RecordExpense persists one operating expense.
func (s *Service) RecordExpense(ctx context.Context, input ExpenseInput) (*Expense, error) {
	if strings.TrimSpace(input.Category) == "" {
		return nil, apperror.NewValidation("expense category is required").
			WithDetail("field", "category")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperror.NewValidation("expense description is required").
			WithDetail("field", "description")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidation("expense amount must be positive").
			WithDetail("field", "amount")
	}

	expense := &Expense{
		ID:          id.New(),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		ReceiptRef:  input.ReceiptRef,
		ActorID:     appctx.GetActorID(ctx),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

// RecordInvestment persists one partner contribution.
func (s *Service) RecordInvestment(ctx context.Context, input InvestmentInput) (*Investment, error) {
	if strings.TrimSpace(input.PartnerName) == "" {
		return nil, apperror.NewValidation("partner name is required").
			WithDetail("field", "partnerName")
	}
	if strings.TrimSpace(input.Kind) == "" {
		return nil, apperror.NewValidation("investment kind is required").
			WithDetail("field", "kind")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidation("investment amount must be positive").
			WithDetail("field", "amount")
	}

	investment := &Investment{
		ID:          id.New(),
		PartnerName: strings.TrimSpace(input.PartnerName),
		Amount:      input.Amount,
		Kind:        strings.TrimSpace(input.Kind),
		Description: input.Description,
		ProofRef:    input.ProofRef,
		ActorID:     appctx.GetActorID(ctx),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateInvestment(ctx, investment); err != nil {
		return nil, fmt.Errorf("create investment: %w", err)
	}
	return investment, nil
}

// RecordWithdrawal persists one partner withdrawal.
func (s *Service) RecordWithdrawal(ctx context.Context, input WithdrawalInput) (*Withdrawal, error) {
	if strings.TrimSpace(input.PartnerName) == "" {
		return nil, apperror.NewValidation("partner name is required").
			WithDetail("field", "partnerName")
	}
	if strings.TrimSpace(input.Concept) == "" {
		return nil, apperror.NewValidation("withdrawal concept is required").
			WithDetail("field", "concept")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidation("withdrawal amount must be positive").
			WithDetail("field", "amount")
	}

	withdrawal := &Withdrawal{
		ID:          id.New(),
		PartnerName: strings.TrimSpace(input.PartnerName),
		Amount:      input.Amount,
		Concept:     strings.TrimSpace(input.Concept),
		ActorID:     appctx.GetActorID(ctx),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}
	return withdrawal, nil
}

// Statements returns registered bank statements, newest upload first.
func (s *Service) Statements(ctx context.Context) ([]BankStatement, error) {
	return s.repo.ListStatements(ctx)
}

// AddStatement registers an uploaded bank statement.
func (s *Service) AddStatement(ctx context.Context, input StatementInput) (*BankStatement, error) {
	if input.Month < 1 || input.Month > 12 {
		return nil, apperror.NewValidation("statement month must be between 1 and 12").
			WithDetail("field", "month")
	}
	if input.Year < 2000 {
		return nil, apperror.NewValidation("statement year is invalid").
			WithDetail("field", "year")
	}
	if strings.TrimSpace(input.Bank) == "" {
		return nil, apperror.NewValidation("bank name is required").
			WithDetail("field", "bank")
	}
	if strings.TrimSpace(input.FileRef) == "" {
		return nil, apperror.NewValidation("statement file reference is required").
			WithDetail("field", "fileRef")
	}

	statement := &BankStatement{
		ID:         id.New(),
		Month:      input.Month,
		Year:       input.Year,
		Bank:       strings.TrimSpace(input.Bank),
		FileRef:    strings.TrimSpace(input.FileRef),
		ActorID:    appctx.GetActorID(ctx),
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateStatement(ctx, statement); err != nil {
		return nil, fmt.Errorf("create statement: %w", err)
	}
	return statement, nil
}
