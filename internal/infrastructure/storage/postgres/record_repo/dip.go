// Package record_repo provides PostgreSQL implementations for the daily
// record repositories: dips, deliveries, fuel sales and Over/Short results.
//
// Litres columns are NUMERIC and selected as text so decimal values reach
// the domain layer without a float round trip.
package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/dip"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

const dipsTable = "dips"

// DipRepo implements dip.Repository.
type DipRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewDipRepo creates a new dip reading repository.
func NewDipRepo(txm *postgres.TxManager) *DipRepo {
	return &DipRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// dipRow is the scan target. Litres comes back as text, see package doc.
type dipRow struct {
	StationID     string    `db:"station_id"`
	StationTankID string    `db:"station_tank_id"`
	FuelType      string    `db:"fuel_type"`
	Date          time.Time `db:"date"`
	Level         int       `db:"level"`
	Litres        string    `db:"litres"`
}

var dipColumns = []string{
	"station_id", "station_tank_id", "fuel_type", "date", "level",
	"litres::text AS litres",
}

func (row *dipRow) toReading() (dip.Reading, error) {
	ft, err := fueltype.Parse(row.FuelType)
	if err != nil {
		return dip.Reading{}, apperror.NewMalformedRecord("dip", "fuel_type", row.FuelType).
			WithDetail("station_tank_id", row.StationTankID).
			WithDetail("date", period.FormatDate(row.Date))
	}
	litres, err := types.NewLitresFromString(row.Litres)
	if err != nil {
		return dip.Reading{}, apperror.NewMalformedRecord("dip", "litres", row.Litres).
			WithDetail("station_tank_id", row.StationTankID).
			WithDetail("date", period.FormatDate(row.Date)).
			WithCause(err)
	}
	return dip.Reading{
		StationID:     row.StationID,
		StationTankID: row.StationTankID,
		FuelType:      ft,
		Date:          period.DayOf(row.Date),
		Level:         row.Level,
		Litres:        litres,
	}, nil
}

// GetByStationDate returns all readings for a station on a date.
func (r *DipRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]dip.Reading, error) {
	return r.selectReadings(ctx, squirrel.Eq{"station_id": stationID, "date": period.DayOf(date)})
}

// GetDipsInRange returns readings for a station with date in [from, to].
func (r *DipRepo) GetDipsInRange(ctx context.Context, stationID string, from, to time.Time) ([]dip.Reading, error) {
	return r.selectReadings(ctx, squirrel.And{
		squirrel.Eq{"station_id": stationID},
		squirrel.GtOrEq{"date": period.DayOf(from)},
		squirrel.LtOrEq{"date": period.DayOf(to)},
	})
}

func (r *DipRepo) selectReadings(ctx context.Context, where squirrel.Sqlizer) ([]dip.Reading, error) {
	q := r.builder.Select(dipColumns...).
		From(dipsTable).
		Where(where).
		OrderBy("date", "station_tank_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []dipRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select dips: %w", err)
	}

	readings := make([]dip.Reading, 0, len(rows))
	for i := range rows {
		reading, err := rows[i].toReading()
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

// Upsert creates or replaces the reading for (stationTankID, date).
func (r *DipRepo) Upsert(ctx context.Context, reading *dip.Reading) error {
	q := r.builder.Insert(dipsTable).
		Columns("station_id", "station_tank_id", "fuel_type", "date", "level", "litres").
		Values(
			reading.StationID, reading.StationTankID, string(reading.FuelType),
			period.DayOf(reading.Date), reading.Level, reading.Litres.String(),
		).
		Suffix(`ON CONFLICT (station_tank_id, date) DO UPDATE SET
			station_id = EXCLUDED.station_id,
			fuel_type = EXCLUDED.fuel_type,
			level = EXCLUDED.level,
			litres = EXCLUDED.litres`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert dip: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ dip.Repository = (*DipRepo)(nil)
