package handlers

import (
	"github.com/gin-gonic/gin"

	"fogon/internal/domain/rates"
)

// RateHandler handles exchange-rate endpoints.
type RateHandler struct {
	*BaseHandler
	provider rates.Provider
}

// NewRateHandler creates a new rate handler.
func NewRateHandler(base *BaseHandler, provider rates.Provider) *RateHandler {
	return &RateHandler{BaseHandler: base, provider: provider}
}

// Current handles GET /rates/current.
func (h *RateHandler) Current(c *gin.Context) {
	rate, err := h.provider.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rate)
}
