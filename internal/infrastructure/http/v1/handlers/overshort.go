package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/domain/recon"
)

// OverShortHandler serves Over/Short reconciliation endpoints.
type OverShortHandler struct {
	*BaseHandler
	engine *recon.Engine
	repo   recon.Repository
}

// NewOverShortHandler creates a new Over/Short handler.
func NewOverShortHandler(base *BaseHandler, engine *recon.Engine, repo recon.Repository) *OverShortHandler {
	return &OverShortHandler{BaseHandler: base, engine: engine, repo: repo}
}

// GetByDate returns the reconciliation result for a station-day.
// GET /overshort/:stationId?date=YYYY-MM-DD
func (h *OverShortHandler) GetByDate(c *gin.Context) {
	date, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	rec, err := h.repo.GetOverShort(c.Request.Context(), c.Param("stationId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rec)
}

// GetRange returns reconciliation results over an inclusive date range.
// GET /overshort/:stationId/range?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *OverShortHandler) GetRange(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	records, err := h.repo.GetOverShortRange(c.Request.Context(), c.Param("stationId"), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "records": records})
}

// Recalculate reruns reconciliation for a station-day, replacing the stored
// result wholesale.
// POST /overshort/:stationId/recalculate?date=YYYY-MM-DD
func (h *OverShortHandler) Recalculate(c *gin.Context) {
	date, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	rec, err := h.engine.ReconcileStationDay(c.Request.Context(), c.Param("stationId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rec)
}
