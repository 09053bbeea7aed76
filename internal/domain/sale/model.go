// Package sale provides read access to fuel sale records and the per-fuel
// summation used by reconciliation and reports. Sale records are written by
// the upstream import pipeline; this system only reads them.
package sale

import (
	"context"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
)

// SalesMap holds litres sold per fuel type for one day.
type SalesMap map[fueltype.FuelType]types.Litres

// Get returns the litres for a fuel type, zero when absent. A sale record
// missing a fuel type means nothing was sold, unlike a missing record.
func (m SalesMap) Get(ft fueltype.FuelType) types.Litres {
	if v, ok := m[ft]; ok {
		return v
	}
	return types.ZeroLitres()
}

// FuelSale is one station-day of recorded sales. One record exists per
// (station, date); its absence is a hard precondition failure for
// reconciliation.
type FuelSale struct {
	StationID string          `json:"stationId"`
	Date      time.Time       `json:"date"`
	YearWeek  period.YearWeek `json:"yearWeek"`
	Sales     SalesMap        `json:"sales"`
}

// ParseSalesMap converts the stored raw map (fuel type -> decimal string)
// into a SalesMap. Any unparseable value fails the whole record with
// MalformedRecord - bad data is never coerced to zero, since that would
// corrupt downstream reconciliation totals.
func ParseSalesMap(stationID string, date time.Time, raw map[string]string) (SalesMap, error) {
	sales := make(SalesMap, len(raw))
	for k, v := range raw {
		ft, err := fueltype.Parse(k)
		if err != nil {
			return nil, apperror.NewMalformedRecord("fuel sale", "fuel type", k).
				WithDetail("station_id", stationID).
				WithDetail("date", period.FormatDate(date))
		}
		litres, err := types.NewLitresFromString(v)
		if err != nil {
			return nil, apperror.NewMalformedRecord("fuel sale", "sales."+k, v).
				WithDetail("station_id", stationID).
				WithDetail("date", period.FormatDate(date)).
				WithCause(err)
		}
		sales[ft] = litres
	}
	return sales, nil
}

// Repository defines the interface for fuel sale reads.
type Repository interface {
	// GetSale returns the sale record for a station/date, or a NotFound
	// error when the import has not produced one.
	GetSale(ctx context.Context, stationID string, date time.Time) (*FuelSale, error)

	// GetSalesInRange returns sale records for a station with date in
	// [from, to], ordered by date.
	GetSalesInRange(ctx context.Context, stationID string, from, to time.Time) ([]FuelSale, error)
}
