package station

import (
	"context"
)

// Repository defines the interface for station master-data persistence.
type Repository interface {
	// ListStations returns all stations sorted by name.
	ListStations(ctx context.Context) ([]Station, error)

	// GetStation retrieves one station by its ID.
	GetStation(ctx context.Context, stationID string) (*Station, error)

	// GetStationTanks returns tank assignments for a station.
	// When activeOnly is set, retired assignments are excluded.
	GetStationTanks(ctx context.Context, stationID string, activeOnly bool) ([]StationTank, error)

	// SetTankActive flips the active flag on a tank assignment.
	SetTankActive(ctx context.Context, assignmentID string, active bool) error

	// GetTank retrieves a tank model with its gauge chart.
	GetTank(ctx context.Context, tankID string) (*Tank, error)

	// ListTanks returns all tank models.
	ListTanks(ctx context.Context) ([]Tank, error)
}
