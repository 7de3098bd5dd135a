package handlers

import (
	"github.com/gin-gonic/gin"

	"fogon/internal/domain/finance"
	"fogon/internal/infrastructure/http/v1/dto"
)

// FinanceHandler handles finance-movement endpoints.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// Overview handles GET /finance.
func (h *FinanceHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, overview)
}

// CreateExpense handles POST /finance/expenses.
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	expense, err := h.service.RecordExpense(c.Request.Context(), finance.ExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		ReceiptRef:  req.ReceiptRef,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, expense.ID.String())
}

// CreateInvestment handles POST /finance/investments.
func (h *FinanceHandler) CreateInvestment(c *gin.Context) {
	var req dto.InvestmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	investment, err := h.service.RecordInvestment(c.Request.Context(), finance.InvestmentInput{
		PartnerName: req.PartnerName,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Description: req.Description,
		ProofRef:    req.ProofRef,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, investment.ID.String())
}

// CreateWithdrawal handles POST /finance/withdrawals.
func (h *FinanceHandler) CreateWithdrawal(c *gin.Context) {
	var req dto.WithdrawalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	withdrawal, err := h.service.RecordWithdrawal(c.Request.Context(), finance.WithdrawalInput{
		PartnerName: req.PartnerName,
		Amount:      req.Amount,
		Concept:     req.Concept,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, withdrawal.ID.String())
}

// ListStatements handles GET /finance/statements.
func (h *FinanceHandler) ListStatements(c *gin.Context) {
	statements, err := h.service.Statements(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: statements, Count: len(statements)})
}

// CreateStatement handles POST /finance/statements.
func (h *FinanceHandler) CreateStatement(c *gin.Context) {
	var req dto.StatementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	statement, err := h.service.AddStatement(c.Request.Context(), finance.StatementInput{
		Month:   req.Month,
		Year:    req.Year,
		Bank:    req.Bank,
		FileRef: req.FileRef,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, statement.ID.String())
}
