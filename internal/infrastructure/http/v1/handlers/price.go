package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/domain/price"
)

// PriceHandler serves posted fuel price lookups.
type PriceHandler struct {
	*BaseHandler
	repo price.Repository
}

// NewPriceHandler creates a new fuel price handler.
func NewPriceHandler(base *BaseHandler, repo price.Repository) *PriceHandler {
	return &PriceHandler{BaseHandler: base, repo: repo}
}

// GetByDate returns the posted price for a station on one date.
// GET /fuel-prices/:stationId?date=YYYY-MM-DD
func (h *PriceHandler) GetByDate(c *gin.Context) {
	date, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	p, err := h.repo.GetPrice(c.Request.Context(), c.Param("stationId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// GetRange returns posted prices for a station over an inclusive date range.
// GET /fuel-prices/:stationId/range?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *PriceHandler) GetRange(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	prices, err := h.repo.GetPricesInRange(c.Request.Context(), c.Param("stationId"), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "prices": prices})
}
