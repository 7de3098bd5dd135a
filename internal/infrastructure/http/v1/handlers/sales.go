package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/sales"
	"fogon/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles sale endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales. A partial failure (sale saved, consumption
// failed) still returns 201 with a warning so the client does not re-ring
// the ticket.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines := make([]sales.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, sales.LineInput{
			ProductRef: line.ProductRef,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}

	sale, err := h.service.CreateSale(c.Request.Context(), sales.CreateInput{
		Lines:         lines,
		PaymentMethod: sales.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		ExchangeRate:  req.ExchangeRate,
	})
	if err != nil && !apperror.IsPartialFailure(err) {
		h.Error(c, err)
		return
	}

	resp := dto.CreateSaleResponse{
		ID:                 sale.ID.String(),
		Total:              sale.Total,
		ConsumptionApplied: err == nil,
	}
	if err != nil {
		appErr, _ := apperror.AsAppError(err)
		resp.Warning = &dto.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale id"))
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sale)
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.ListSales(c.Request.Context(), limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: result, Count: len(result)})
}
