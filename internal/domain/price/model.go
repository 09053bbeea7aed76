// Package price provides read access to posted per-litre fuel prices and the
// week-average aggregation used by the fleet sales report. Prices are posted
// by head office through the import pipeline; this system only reads them.
package price

import (
	"context"
	"time"

	"fuelrecon/internal/core/types"
)

// FuelPrice is one posted station price. At most one price row exists per
// (station, date); a price stays in effect until the next posting.
type FuelPrice struct {
	StationID string      `db:"station_id" json:"stationId"`
	Date      time.Time   `db:"date" json:"date"`
	Price     types.Price `db:"price" json:"price"`
}

// Repository defines the interface for fuel price reads.
type Repository interface {
	// GetPrice returns the posted price for a station/date, or NotFound.
	GetPrice(ctx context.Context, stationID string, date time.Time) (*FuelPrice, error)

	// GetPricesInRange returns prices for a station with date in [from, to],
	// ordered by date.
	GetPricesInRange(ctx context.Context, stationID string, from, to time.Time) ([]FuelPrice, error)
}
