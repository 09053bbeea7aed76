package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/domain/dip"
	"fuelrecon/internal/infrastructure/http/v1/dto"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

// DipHandler serves dip reading endpoints.
type DipHandler struct {
	*BaseHandler
	service *dip.Service
	audit   *postgres.AuditService
}

// NewDipHandler creates a new dip handler. audit may be nil.
func NewDipHandler(base *BaseHandler, service *dip.Service, audit *postgres.AuditService) *DipHandler {
	return &DipHandler{BaseHandler: base, service: service, audit: audit}
}

// CreateBatch handles a dip batch submission with paired deliveries.
// POST /dips
func (h *DipHandler) CreateBatch(c *gin.Context) {
	var req dto.DipBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs, err := req.ToInputs()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.CreateBatch(c.Request.Context(), inputs)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// GetByDate returns readings for a station on one date.
// GET /dips/:stationId?date=YYYY-MM-DD
func (h *DipHandler) GetByDate(c *gin.Context) {
	date, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	readings, err := h.service.GetByStationDate(c.Request.Context(), c.Param("stationId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "dips": readings})
}

// GetRange returns readings for a station over an inclusive date range.
// GET /dips/:stationId/range?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *DipHandler) GetRange(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	readings, err := h.service.GetRange(c.Request.Context(), c.Param("stationId"), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "dips": readings})
}

// GetAuditHistory returns recent batch submissions for a station.
// GET /dips/:stationId/audit?limit=N
func (h *DipHandler) GetAuditHistory(c *gin.Context) {
	if h.audit == nil {
		h.Error(c, apperror.NewNotFound("dip audit history", c.Param("stationId")))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	entries, err := h.audit.GetStationHistory(c.Request.Context(), c.Param("stationId"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stationId": c.Param("stationId"), "entries": entries})
}
