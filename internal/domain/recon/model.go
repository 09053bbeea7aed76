// Package recon implements the Over/Short inventory reconciliation engine:
// for one station-day it reconstructs the discrepancy between physically
// measured fuel inventory (tank dips) and the inventory implied by recorded
// sales, net of deliveries.
package recon

import (
	"context"
	"time"

	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
)

// Entry is the Over/Short result for one fuel type on one day.
type Entry struct {
	FuelType fueltype.FuelType `json:"fuelType"`

	// TankLitres is the net physical litres consumed since the prior dip,
	// after delivery correction.
	TankLitres types.Litres `json:"tankLitres"`

	// LitresSold is the litres recorded as sold per the FuelSale record.
	LitresSold types.Litres `json:"litresSold"`

	// OverShort = LitresSold - TankLitres. Positive: apparent surplus,
	// negative: apparent shortage.
	OverShort types.Litres `json:"overShort"`
}

// Record is the persisted Over/Short result for one (station, date).
// It is always replaced wholesale, never field-patched, so concurrent
// partial writes cannot produce a torn record.
type Record struct {
	StationID string           `json:"stationId"`
	Date      time.Time        `json:"date"`
	Year      int              `json:"year"`
	YearMonth period.YearMonth `json:"yearMonth"`

	// OverShort keys are exactly the fuel types that had a non-zero
	// prior-day dip litres value; fuel types without a baseline are
	// excluded entirely.
	OverShort map[fueltype.FuelType]Entry `json:"overShort"`
}

// Repository defines the interface for Over/Short persistence.
type Repository interface {
	// PutOverShort creates or wholesale-replaces the record for its
	// (station, date) key.
	PutOverShort(ctx context.Context, rec *Record) error

	// GetOverShort returns the record for a station/date, or NotFound.
	GetOverShort(ctx context.Context, stationID string, date time.Time) (*Record, error)

	// GetOverShortRange returns records for a station with date in
	// [from, to], ordered by date.
	GetOverShortRange(ctx context.Context, stationID string, from, to time.Time) ([]Record, error)

	// GetOverShortByYear returns all records of a station for one year,
	// ordered by date. Backs the annual roll-up.
	GetOverShortByYear(ctx context.Context, stationID string, year int) ([]Record, error)
}
