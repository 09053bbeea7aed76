// Package catalog_repo provides PostgreSQL implementations for master-data
// repositories: stations, tank models and tank assignments.
package catalog_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/station"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

const (
	stationsTable     = "stations"
	tanksTable        = "tanks"
	stationTanksTable = "station_tanks"
)

// StationRepo implements station.Repository.
type StationRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStationRepo creates a new station repository.
func NewStationRepo(txm *postgres.TxManager) *StationRepo {
	return &StationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListStations returns all stations sorted by name.
func (r *StationRepo) ListStations(ctx context.Context) ([]station.Station, error) {
	q := r.builder.Select("id", "name").
		From(stationsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stations []station.Station
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &stations, sql, args...); err != nil {
		return nil, fmt.Errorf("select stations: %w", err)
	}
	return stations, nil
}

// GetStation retrieves one station by its ID.
func (r *StationRepo) GetStation(ctx context.Context, stationID string) (*station.Station, error) {
	q := r.builder.Select("id", "name").
		From(stationsTable).
		Where(squirrel.Eq{"id": stationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var st station.Station
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("station", stationID)
		}
		return nil, fmt.Errorf("get station: %w", err)
	}
	return &st, nil
}

type stationTankRow struct {
	ID        string `db:"id"`
	StationID string `db:"station_id"`
	TankID    string `db:"tank_id"`
	FuelType  string `db:"fuel_type"`
	Active    bool   `db:"active"`
}

func (row *stationTankRow) toStationTank() (station.StationTank, error) {
	ft, err := fueltype.Parse(row.FuelType)
	if err != nil {
		return station.StationTank{}, apperror.NewMalformedRecord("station tank", "fuel_type", row.FuelType).
			WithDetail("id", row.ID)
	}
	return station.StationTank{
		ID:        row.ID,
		StationID: row.StationID,
		TankID:    row.TankID,
		FuelType:  ft,
		Active:    row.Active,
	}, nil
}

// GetStationTanks returns tank assignments for a station, ordered by tank.
func (r *StationRepo) GetStationTanks(ctx context.Context, stationID string, activeOnly bool) ([]station.StationTank, error) {
	q := r.builder.Select("id", "station_id", "tank_id", "fuel_type", "active").
		From(stationTanksTable).
		Where(squirrel.Eq{"station_id": stationID}).
		OrderBy("tank_id")

	if activeOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stationTankRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select station tanks: %w", err)
	}

	tanks := make([]station.StationTank, 0, len(rows))
	for i := range rows {
		st, err := rows[i].toStationTank()
		if err != nil {
			return nil, err
		}
		tanks = append(tanks, st)
	}
	return tanks, nil
}

// SetTankActive flips the active flag on a tank assignment.
func (r *StationRepo) SetTankActive(ctx context.Context, assignmentID string, active bool) error {
	q := r.builder.Update(stationTanksTable).
		Set("active", active).
		Where(squirrel.Eq{"id": assignmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update station tank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("station tank", assignmentID)
	}
	return nil
}

// tankRow scans the gauge chart JSONB as raw bytes.
type tankRow struct {
	ID     string `db:"id"`
	Size   int    `db:"size"`
	Levels []byte `db:"levels"`
}

func (row *tankRow) toTank() (station.Tank, error) {
	var levels map[int]types.Litres
	if len(row.Levels) > 0 {
		if err := json.Unmarshal(row.Levels, &levels); err != nil {
			return station.Tank{}, apperror.NewMalformedRecord("tank", "levels", string(row.Levels)).
				WithDetail("id", row.ID).
				WithCause(err)
		}
	}
	return station.Tank{
		ID:     row.ID,
		Size:   row.Size,
		Levels: levels,
	}, nil
}

// GetTank retrieves a tank model with its gauge chart.
func (r *StationRepo) GetTank(ctx context.Context, tankID string) (*station.Tank, error) {
	q := r.builder.Select("id", "size", "levels").
		From(tanksTable).
		Where(squirrel.Eq{"id": tankID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row tankRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("tank", tankID)
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}

	tank, err := row.toTank()
	if err != nil {
		return nil, err
	}
	return &tank, nil
}

// ListTanks returns all tank models.
func (r *StationRepo) ListTanks(ctx context.Context) ([]station.Tank, error) {
	q := r.builder.Select("id", "size", "levels").
		From(tanksTable).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []tankRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select tanks: %w", err)
	}

	tanks := make([]station.Tank, 0, len(rows))
	for i := range rows {
		tank, err := rows[i].toTank()
		if err != nil {
			return nil, err
		}
		tanks = append(tanks, tank)
	}
	return tanks, nil
}

// Ensure interface compliance.
var _ station.Repository = (*StationRepo)(nil)
