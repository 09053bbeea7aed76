package delivery

import (
	"context"
	"time"

	"fuelrecon/pkg/logger"
)

// Service provides business operations for deliveries. Most delivery writes
// happen through the dip service (dip and paired delivery are maintained
// together); direct creation exists for corrections.
type Service struct {
	repo Repository
}

// NewService creates a new delivery service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByStationDate returns deliveries for a station on a date.
func (s *Service) ListByStationDate(ctx context.Context, stationID string, date time.Time) ([]Delivery, error) {
	return s.repo.GetByStationDate(ctx, stationID, date)
}

// GetForTank returns the delivery paired with a tank/date, or nil.
func (s *Service) GetForTank(ctx context.Context, stationTankID string, date time.Time) (*Delivery, error) {
	return s.repo.GetByTankDate(ctx, stationTankID, date)
}

// Create validates and upserts a delivery.
func (s *Service) Create(ctx context.Context, d *Delivery) error {
	if err := d.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, d); err != nil {
		return err
	}

	logger.Info(ctx, "delivery recorded",
		"station_id", d.StationID,
		"tank_id", d.StationTankID,
		"litres", d.Litres.String(),
	)
	return nil
}
