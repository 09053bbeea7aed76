// Package delivery provides fuel delivery records. A delivery is fuel added
// to a tank on a date; the reconciliation engine subtracts it before
// computing consumption from dip readings.
package delivery

import (
	"context"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/types"
)

// Delivery is one tank refill on one date. At most one delivery row exists
// per (stationTankID, date); a redelivery on the same day is recorded as a
// combined litres figure.
type Delivery struct {
	StationID     string            `db:"station_id" json:"stationId"`
	StationTankID string            `db:"station_tank_id" json:"stationTankId"`
	FuelType      fueltype.FuelType `db:"fuel_type" json:"fuelType"`
	Date          time.Time         `db:"date" json:"date"`
	Litres        types.Litres      `db:"litres" json:"litres"`
}

// Validate checks a delivery before persistence.
func (d *Delivery) Validate(_ context.Context) error {
	if d.StationID == "" {
		return apperror.NewValidation("station is required").WithDetail("field", "stationId")
	}
	if d.StationTankID == "" {
		return apperror.NewValidation("tank is required").WithDetail("field", "stationTankId")
	}
	if !fueltype.IsValid(d.FuelType) {
		return apperror.NewUnknownFuelType(string(d.FuelType))
	}
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if d.Litres.IsNegative() {
		return apperror.NewValidation("delivery litres cannot be negative").
			WithDetail("field", "litres").
			WithDetail("value", d.Litres.String())
	}
	return nil
}
