package delivery

import (
	"context"
	"time"
)

// Repository defines the interface for delivery persistence.
type Repository interface {
	// GetByStationDate returns all deliveries for a station on a date.
	GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]Delivery, error)

	// GetByStationRange returns deliveries for a station with date in
	// [from, to], ordered by date then tank.
	GetByStationRange(ctx context.Context, stationID string, from, to time.Time) ([]Delivery, error)

	// GetByTankDate returns the delivery paired with a tank/date, or nil.
	GetByTankDate(ctx context.Context, stationTankID string, date time.Time) (*Delivery, error)

	// Upsert creates or replaces the delivery for (stationTankID, date).
	Upsert(ctx context.Context, d *Delivery) error

	// Delete removes the delivery for (stationTankID, date). Deleting a
	// missing row is not an error: dip edits delete unconditionally.
	Delete(ctx context.Context, stationTankID string, date time.Time) error
}
