package handlers

import (
	"github.com/gin-gonic/gin"

	"fuelrecon/internal/core/period"
	"fuelrecon/internal/domain/reports"
	"fuelrecon/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves roll-up report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// MonthlyOverShort returns the month roll-up of a station's Over/Short.
// GET /reports/overshort/:stationId/month?month=YYYY-MM
func (h *ReportsHandler) MonthlyOverShort(c *gin.Context) {
	var q dto.MonthQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ym, err := period.ParseYearMonth(q.Month)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.MonthlyOverShort(c.Request.Context(), c.Param("stationId"), ym)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// AnnualOverShort returns month-by-month totals for one year.
// GET /reports/overshort/:stationId/annual?year=YYYY
func (h *ReportsHandler) AnnualOverShort(c *gin.Context) {
	var q dto.YearQuery
	if !h.BindQuery(c, &q) {
		return
	}

	report, err := h.service.AnnualOverShort(c.Request.Context(), c.Param("stationId"), q.Year)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// MonthlyDeliveries returns the month roll-up of a station's deliveries.
// GET /reports/deliveries/:stationId/month?month=YYYY-MM
func (h *ReportsHandler) MonthlyDeliveries(c *gin.Context) {
	var q dto.MonthQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ym, err := period.ParseYearMonth(q.Month)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.MonthlyDeliveries(c.Request.Context(), c.Param("stationId"), ym)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// FleetList returns the week-bucketed sales list for all stations in a month.
// GET /reports/sales/list?month=YYYY-MM
func (h *ReportsHandler) FleetList(c *gin.Context) {
	var q dto.MonthQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ym, err := period.ParseYearMonth(q.Month)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.FleetListReport(c.Request.Context(), ym)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// FleetSummary returns grouped sales totals per station for a date range.
// GET /reports/sales/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportsHandler) FleetSummary(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	summary, err := h.service.FleetSalesSummary(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"stations": summary})
}
