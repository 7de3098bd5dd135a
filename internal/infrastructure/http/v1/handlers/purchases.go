package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/purchasing"
	"fogon/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles bulk-purchase and purchase-history endpoints.
type PurchaseHandler struct {
	*BaseHandler
	reconciler *purchasing.Reconciler
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, reconciler *purchasing.Reconciler) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, reconciler: reconciler}
}

// Bulk handles POST /purchases/bulk.
func (h *PurchaseHandler) Bulk(c *gin.Context) {
	var req dto.BulkPurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines := make([]purchasing.Line, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, purchasing.Line{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	purchases, err := h.reconciler.Reconcile(c.Request.Context(), purchasing.BulkInput{
		Lines:      lines,
		Supplier:   req.Supplier,
		ReceiptRef: req.ReceiptRef,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.BulkPurchaseResponse{Purchases: len(purchases)})
}

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	purchases, err := h.reconciler.History(c.Request.Context(), limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: purchases, Count: len(purchases)})
}

// ListByItem handles GET /purchases/item/:id.
func (h *PurchaseHandler) ListByItem(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	purchases, err := h.reconciler.ItemHistory(c.Request.Context(), itemID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: purchases, Count: len(purchases)})
}
