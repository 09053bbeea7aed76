package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/domain/delivery"
)

// DeliveryHandler serves fuel delivery endpoints.
type DeliveryHandler struct {
	*BaseHandler
	service *delivery.Service
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{BaseHandler: base, service: service}
}

// GetByDate returns deliveries for a station on one date.
// GET /deliveries/:stationId?date=YYYY-MM-DD
func (h *DeliveryHandler) GetByDate(c *gin.Context) {
	date, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	deliveries, err := h.service.ListByStationDate(c.Request.Context(), c.Param("stationId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "deliveries": deliveries})
}
