package dip

import (
	"context"
	"fmt"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/tx"
	"fuelrecon/internal/domain/delivery"
	"fuelrecon/pkg/logger"
)

// Reconciler triggers the Over/Short computation for one station-day.
// Implemented by the recon engine; injected to keep the dependency one-way.
type Reconciler interface {
	ReconcileStationDay(ctx context.Context, stationID string, date time.Time) error
}

// ReconcilerFunc adapts a function to the Reconciler interface.
type ReconcilerFunc func(ctx context.Context, stationID string, date time.Time) error

// ReconcileStationDay implements Reconciler.
func (f ReconcilerFunc) ReconcileStationDay(ctx context.Context, stationID string, date time.Time) error {
	return f(ctx, stationID, date)
}

// AuditRecorder persists an audit trail entry for a dip batch submission.
// Best effort: audit failures are logged, never fail the mutation.
type AuditRecorder interface {
	RecordDipBatch(ctx context.Context, stationID string, date time.Time, payload any) error
}

// Service provides business operations for dip readings.
type Service struct {
	repo       Repository
	deliveries delivery.Repository
	reconciler Reconciler
	audit      AuditRecorder
	txManager  tx.Manager
}

// NewService creates a new dip service. audit may be nil to disable the trail.
func NewService(repo Repository, deliveries delivery.Repository, reconciler Reconciler, audit AuditRecorder, txManager tx.Manager) *Service {
	return &Service{
		repo:       repo,
		deliveries: deliveries,
		reconciler: reconciler,
		audit:      audit,
		txManager:  txManager,
	}
}

// GetByStationDate returns readings for a station on a date.
func (s *Service) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]Reading, error) {
	return s.repo.GetByStationDate(ctx, stationID, date)
}

// GetRange returns readings for a station with date in [from, to].
func (s *Service) GetRange(ctx context.Context, stationID string, from, to time.Time) ([]Reading, error) {
	if from.After(to) {
		return nil, apperror.NewValidation("dateFrom must not be after dateTo")
	}
	return s.repo.GetDipsInRange(ctx, stationID, from, to)
}

// CreateBatch writes a batch of dip readings and their paired deliveries in
// one transaction, then triggers exactly one reconciliation per distinct
// (station, date) in the batch - not per dip row.
//
// A dip input carrying a delivery amount creates or replaces the Delivery
// for that tank/date; an input without one removes any Delivery left over
// from an earlier edit.
func (s *Service) CreateBatch(ctx context.Context, inputs []Input) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewValidation("empty dip batch")
	}

	for i := range inputs {
		if err := inputs[i].Validate(ctx); err != nil {
			return nil, err
		}
		if inputs[i].Delivery != nil && inputs[i].Delivery.IsNegative() {
			return nil, apperror.NewValidation("delivery litres cannot be negative").
				WithDetail("field", "delivery").
				WithDetail("tank_id", inputs[i].StationTankID)
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range inputs {
			in := &inputs[i]
			in.Date = period.DayOf(in.Date)

			if err := s.repo.Upsert(ctx, &in.Reading); err != nil {
				return fmt.Errorf("upsert dip: %w", err)
			}

			if in.Delivery != nil {
				d := &delivery.Delivery{
					StationID:     in.StationID,
					StationTankID: in.StationTankID,
					FuelType:      in.FuelType,
					Date:          in.Date,
					Litres:        *in.Delivery,
				}
				if err := s.deliveries.Upsert(ctx, d); err != nil {
					return fmt.Errorf("upsert delivery: %w", err)
				}
			} else {
				if err := s.deliveries.Delete(ctx, in.StationTankID, in.Date); err != nil {
					return fmt.Errorf("remove delivery: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range distinctStationDays(inputs) {
		if s.audit != nil {
			rows := stationDayInputs(inputs, key)
			if auditErr := s.audit.RecordDipBatch(ctx, key.stationID, key.date, rows); auditErr != nil {
				logger.Warn(ctx, "dip batch audit failed", "error", auditErr)
			}
		}

		if err := s.reconciler.ReconcileStationDay(ctx, key.stationID, key.date); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "dip batch created", "rows", len(inputs))
	return &BatchResult{OK: 1, Modified: len(inputs)}, nil
}

type stationDay struct {
	stationID string
	date      time.Time
}

// stationDayInputs returns the batch rows belonging to one (station, date),
// so each audit entry records only its own station-day.
func stationDayInputs(inputs []Input, key stationDay) []Input {
	var rows []Input
	for i := range inputs {
		if inputs[i].StationID == key.stationID && period.DayOf(inputs[i].Date).Equal(key.date) {
			rows = append(rows, inputs[i])
		}
	}
	return rows
}

// distinctStationDays returns the unique (station, date) pairs of a batch
// in first-seen order.
func distinctStationDays(inputs []Input) []stationDay {
	seen := make(map[stationDay]bool, 1)
	var keys []stationDay
	for i := range inputs {
		key := stationDay{inputs[i].StationID, period.DayOf(inputs[i].Date)}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
