// Package dip provides tank dip readings: the manual gauge measurements
// that are the source of truth for physical fuel inventory. Submitting a
// batch of dips for a station-day is the mutation that triggers Over/Short
// reconciliation.
package dip

import (
	"context"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/types"
)

// Reading is one tank dip on one date. Immutable once written in the sense
// that an edit replaces the whole (stationTankID, date) row.
type Reading struct {
	StationID     string            `db:"station_id" json:"stationId"`
	StationTankID string            `db:"station_tank_id" json:"stationTankId"`
	FuelType      fueltype.FuelType `db:"fuel_type" json:"fuelType"`
	Date          time.Time         `db:"date" json:"date"`
	Level         int               `db:"level" json:"level"`
	Litres        types.Litres      `db:"litres" json:"litres"`
}

// Validate checks a reading before persistence.
func (r *Reading) Validate(_ context.Context) error {
	if r.StationID == "" {
		return apperror.NewValidation("station is required").WithDetail("field", "stationId")
	}
	if r.StationTankID == "" {
		return apperror.NewValidation("tank is required").WithDetail("field", "stationTankId")
	}
	if !fueltype.IsValid(r.FuelType) {
		return apperror.NewUnknownFuelType(string(r.FuelType))
	}
	if r.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if r.Level < 0 {
		return apperror.NewValidation("level cannot be negative").WithDetail("field", "level")
	}
	if r.Litres.IsNegative() {
		return apperror.NewValidation("litres cannot be negative").
			WithDetail("field", "litres").
			WithDetail("value", r.Litres.String())
	}
	return nil
}

// Input is one row of a dip batch submission. Delivery, when present,
// creates or replaces the paired Delivery for the tank/date; when absent
// any existing paired Delivery is removed (the dip and its delivery are
// maintained together).
type Input struct {
	Reading

	Delivery *types.Litres `json:"delivery,omitempty"`
}

// BatchResult reports how many rows a batch submission wrote.
type BatchResult struct {
	OK       int `json:"ok"`
	Modified int `json:"nModified"`
}
