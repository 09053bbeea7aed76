package dip

import (
	"context"
	"time"
)

// Repository defines the interface for dip reading persistence.
type Repository interface {
	// GetByStationDate returns all readings for a station on a date.
	GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]Reading, error)

	// GetDipsInRange returns readings for a station with date in
	// [from, to], ordered by date then tank.
	GetDipsInRange(ctx context.Context, stationID string, from, to time.Time) ([]Reading, error)

	// Upsert creates or replaces the reading for (stationTankID, date).
	Upsert(ctx context.Context, r *Reading) error
}
