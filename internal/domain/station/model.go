// Package station provides the station and tank directory. Stations and
// tanks are master data: the reconciliation engine reads them to learn which
// fuel types a station carries, and fleet reports read them for identity.
package station

import (
	"context"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/types"
)

// Station is a retail fuel location. IDs are legacy natural keys, not UUIDs.
type Station struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Tank describes a physical tank model: its capacity and the gauge chart
// converting dip levels to litres.
type Tank struct {
	ID     string              `db:"id" json:"id"`
	Size   int                 `db:"size" json:"size"`
	Levels map[int]types.Litres `db:"levels" json:"levels,omitempty"`
}

// StationTank assigns a tank to a station for a given fuel type.
// Inactive assignments are retired tanks kept for historical reports.
type StationTank struct {
	ID        string            `db:"id" json:"id"`
	StationID string            `db:"station_id" json:"stationId"`
	TankID    string            `db:"tank_id" json:"tankId"`
	FuelType  fueltype.FuelType `db:"fuel_type" json:"fuelType"`
	Active    bool              `db:"active" json:"active"`
}

// Validate checks a tank assignment before persistence.
func (st *StationTank) Validate(_ context.Context) error {
	if st.StationID == "" {
		return apperror.NewValidation("station is required").WithDetail("field", "stationId")
	}
	if st.TankID == "" {
		return apperror.NewValidation("tank is required").WithDetail("field", "tankId")
	}
	if !fueltype.IsValid(st.FuelType) {
		return apperror.NewUnknownFuelType(string(st.FuelType))
	}
	return nil
}
