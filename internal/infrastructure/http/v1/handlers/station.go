package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/domain/station"
)

// StationHandler serves station and tank directory endpoints.
type StationHandler struct {
	*BaseHandler
	service *station.Service
}

// NewStationHandler creates a new station handler.
func NewStationHandler(base *BaseHandler, service *station.Service) *StationHandler {
	return &StationHandler{BaseHandler: base, service: service}
}

// List returns all stations.
// GET /stations
func (h *StationHandler) List(c *gin.Context) {
	stations, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"stations": stations})
}

// Get returns one station.
// GET /stations/:stationId
func (h *StationHandler) Get(c *gin.Context) {
	st, err := h.service.Get(c.Request.Context(), c.Param("stationId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}

// Tanks returns tank assignments for a station. Retired assignments are
// included unless ?active=true.
// GET /stations/:stationId/tanks
func (h *StationHandler) Tanks(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	tanks, err := h.service.Tanks(c.Request.Context(), c.Param("stationId"), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"stationId": c.Param("stationId"), "tanks": tanks})
}

// FuelTypes returns the fuel types a station carries, in report order.
// GET /stations/:stationId/fuel-types
func (h *StationHandler) FuelTypes(c *gin.Context) {
	fuelTypes, err := h.service.FuelTypes(c.Request.Context(), c.Param("stationId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"stationId": c.Param("stationId"), "fuelTypes": fuelTypes})
}

// SetTankActive flips the active flag on a tank assignment.
// PATCH /station-tanks/:id/active
func (h *StationHandler) SetTankActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetTankActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// TankModels returns all tank models with gauge charts.
// GET /tanks
func (h *StationHandler) TankModels(c *gin.Context) {
	tanks, err := h.service.TankModels(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"tanks": tanks})
}
