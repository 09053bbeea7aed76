// Package reports provides the read-only roll-up engines over persisted
// Over/Short records and raw fuel sales. Reports are computed on demand and
// never persisted; an empty result range is a legitimate "no data" report,
// not an error.
package reports

import (
	"time"

	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/recon"
)

// --- Monthly Over/Short ---

// DayOverShort is one day's Over/Short data within a monthly report.
// Data always holds every fuel type of the station's tank configuration;
// a fuel type the reconciliation excluded for that day appears as a
// zero-valued placeholder, distinct from the exclusion in the stored record.
type DayOverShort struct {
	Date time.Time                         `json:"date"`
	Data map[fueltype.FuelType]recon.Entry `json:"data"`
}

// MonthlyReport is the Over/Short roll-up for one station and month.
type MonthlyReport struct {
	StationID string              `json:"stationId"`
	Period    period.YearMonth    `json:"period"`
	FuelTypes []fueltype.FuelType `json:"fuelTypes"`

	Days []DayOverShort `json:"overShort"`

	// Summary is the sum of OverShort across all days, per fuel type.
	Summary map[fueltype.FuelType]types.Litres `json:"overShortSummary"`

	// NoData marks a month with no Over/Short records at all.
	NoData bool `json:"noData,omitempty"`
}

// --- Annual Over/Short ---

// MonthOverShort is one month's Over/Short totals within an annual report.
type MonthOverShort struct {
	Period period.YearMonth                   `json:"period"`
	Totals map[fueltype.FuelType]types.Litres `json:"totals"`
}

// AnnualReport is the Over/Short roll-up for one station and year. Months
// run January through the current month only - an annual report never
// fabricates future empty months.
type AnnualReport struct {
	StationID string              `json:"stationId"`
	Year      int                 `json:"year"`
	FuelTypes []fueltype.FuelType `json:"fuelTypes"`

	Months []MonthOverShort `json:"months"`

	Summary map[fueltype.FuelType]types.Litres `json:"summary"`

	NoData bool `json:"noData,omitempty"`
}

// --- Fleet sales ---

// GroupTotals holds litres per report-level fuel group (NL, DSL).
type GroupTotals map[fueltype.Group]types.Litres

// WeekHeader describes one week column of the fleet list report.
type WeekHeader struct {
	YearWeek period.YearWeek `json:"yearWeek"`
	Week     int             `json:"week"`
	Start    time.Time       `json:"startDate"`
	End      time.Time       `json:"endDate"`
}

// WeekSales is one station's grouped sales within one week of the month.
type WeekSales struct {
	YearWeek period.YearWeek `json:"yearWeek"`

	// Start/End are clamped to the month: a week straddling two months
	// contributes only its in-month days to each month's report.
	Start time.Time   `json:"startDate"`
	End   time.Time   `json:"endDate"`
	Sales GroupTotals `json:"fuelSales"`
}

// StationSales is one station's row in the fleet list report.
type StationSales struct {
	StationID   string      `json:"stationId"`
	StationName string      `json:"stationName"`
	Periods     []WeekSales `json:"periods"`
	Total       GroupTotals `json:"stationTotal"`

	// FuelPrices is the week-average posted price per week column. Weeks
	// with no posting are absent.
	FuelPrices map[period.YearWeek]types.Price `json:"fuelPrices,omitempty"`
}

// WeekTotals is the fleet-wide total for one week column.
type WeekTotals struct {
	YearWeek period.YearWeek `json:"period"`
	Totals   GroupTotals     `json:"totals"`
}

// FleetListReport is the month-of-weeks fleet sales report: every station's
// weekly grouped sales plus per-week and grand totals.
type FleetListReport struct {
	Period   period.YearMonth `json:"period"`
	Header   []WeekHeader     `json:"periodHeader"`
	Stations []StationSales   `json:"periodSales"`
	PerWeek  []WeekTotals     `json:"periodTotals"`
	Totals   GroupTotals      `json:"totalsByFuel"`
}

// --- Monthly deliveries ---

// DayDeliveries is one day's delivered litres per fuel type, summed across
// the station's tanks.
type DayDeliveries struct {
	Date time.Time                          `json:"date"`
	Data map[fueltype.FuelType]types.Litres `json:"data"`
}

// DeliveryReport is the month-of-days delivery roll-up for one station.
// Days without a delivery are omitted; Summary always carries every
// configured fuel type.
type DeliveryReport struct {
	StationID string              `json:"stationId"`
	Period    period.YearMonth    `json:"period"`
	FuelTypes []fueltype.FuelType `json:"fuelTypes"`

	Days []DayDeliveries `json:"deliveries"`

	Summary map[fueltype.FuelType]types.Litres `json:"deliverySummary"`

	NoData bool `json:"noData,omitempty"`
}

// StationSalesSummary is one station's grouped sales total over a date range.
type StationSalesSummary struct {
	StationID   string      `json:"stationId"`
	StationName string      `json:"stationName"`
	Totals      GroupTotals `json:"fuels"`
	HasDSL      bool        `json:"hasDSL"`
}
