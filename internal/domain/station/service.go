package station

import (
	"context"
	"fmt"

	"fuelrecon/internal/core/fueltype"
)

// Service provides read operations over the station directory.
type Service struct {
	repo Repository
}

// NewService creates a new station service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all stations sorted by name.
func (s *Service) List(ctx context.Context) ([]Station, error) {
	return s.repo.ListStations(ctx)
}

// Get retrieves one station.
func (s *Service) Get(ctx context.Context, stationID string) (*Station, error) {
	return s.repo.GetStation(ctx, stationID)
}

// Tanks returns tank assignments for a station.
func (s *Service) Tanks(ctx context.Context, stationID string, activeOnly bool) ([]StationTank, error) {
	return s.repo.GetStationTanks(ctx, stationID, activeOnly)
}

// SetTankActive flips the active flag on a tank assignment.
func (s *Service) SetTankActive(ctx context.Context, assignmentID string, active bool) error {
	return s.repo.SetTankActive(ctx, assignmentID, active)
}

// TankModels returns all tank models with gauge charts.
func (s *Service) TankModels(ctx context.Context) ([]Tank, error) {
	return s.repo.ListTanks(ctx)
}

// FuelTypes returns the distinct fuel types of a station's tank
// configuration, in stable report order. Roll-up reports use this as the
// column set even for days where reconciliation excluded a fuel type.
func (s *Service) FuelTypes(ctx context.Context, stationID string) ([]fueltype.FuelType, error) {
	tanks, err := s.repo.GetStationTanks(ctx, stationID, false)
	if err != nil {
		return nil, fmt.Errorf("get station tanks: %w", err)
	}

	fts := make([]fueltype.FuelType, 0, len(tanks))
	for _, t := range tanks {
		fts = append(fts, t.FuelType)
	}
	return fueltype.Dedupe(fts), nil
}
