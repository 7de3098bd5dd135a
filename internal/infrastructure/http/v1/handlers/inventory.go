package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/inventory"
	"fogon/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles inventory ledger endpoints.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// Snapshot handles GET /inventory.
func (h *InventoryHandler) Snapshot(c *gin.Context) {
	filter := inventory.DefaultListFilter()
	filter.LowStock = c.Query("lowStock") == "true"
	filter.Search = c.Query("search")
	if c.Query("all") == "true" {
		filter.ActiveOnly = false
	}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid category id"))
			return
		}
		filter.CategoryID = &categoryID
	}
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	entries, err := h.service.Snapshot(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}

// Get handles GET /inventory/:id.
func (h *InventoryHandler) Get(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id"))
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Create handles POST /inventory.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid category id"))
		return
	}

	item := inventory.NewItem(req.Name, categoryID, req.MinStock)
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	item.LastCost = req.LastCost

	if err := h.service.CreateItem(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID.String())
}

// Update handles PUT /inventory/:id.
func (h *InventoryHandler) Update(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id"))
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid category id"))
		return
	}

	item := &inventory.Item{
		ID:         itemID,
		Name:       req.Name,
		Unit:       req.Unit,
		MinStock:   req.MinStock,
		LastCost:   req.LastCost,
		Active:     true,
		CategoryID: categoryID,
		UpdatedAt:  time.Now().UTC(),
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.service.UpdateItem(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "item updated")
}

// Categories handles GET /inventory/categories.
func (h *InventoryHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: categories, Count: len(categories)})
}

// CreateCategory handles POST /inventory/categories.
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category := &inventory.Category{
		ID:        id.New(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.service.CreateCategory(c.Request.Context(), category); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, category.ID.String())
}
