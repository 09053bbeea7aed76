package record_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/domain/recon"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

const overShortTable = "dip_overshort"

// OverShortRepo implements recon.Repository. The per-fuel result map is a
// JSONB document replaced wholesale on every write, matching the engine's
// no-partial-write contract.
type OverShortRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewOverShortRepo creates a new Over/Short repository.
func NewOverShortRepo(txm *postgres.TxManager) *OverShortRepo {
	return &OverShortRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type overShortRow struct {
	StationID string    `db:"station_id"`
	Date      time.Time `db:"date"`
	Year      int       `db:"year"`
	YearMonth int       `db:"year_month"`
	OverShort []byte    `db:"overshort"`
}

var overShortColumns = []string{"station_id", "date", "year", "year_month", "overshort"}

func (row *overShortRow) toRecord() (recon.Record, error) {
	var entries map[fueltype.FuelType]recon.Entry
	if err := json.Unmarshal(row.OverShort, &entries); err != nil {
		return recon.Record{}, apperror.NewMalformedRecord("overshort", "overshort", string(row.OverShort)).
			WithDetail("station_id", row.StationID).
			WithDetail("date", period.FormatDate(row.Date)).
			WithCause(err)
	}
	return recon.Record{
		StationID: row.StationID,
		Date:      period.DayOf(row.Date),
		Year:      row.Year,
		YearMonth: period.YearMonth(row.YearMonth),
		OverShort: entries,
	}, nil
}

// PutOverShort creates or wholesale-replaces the record for (station, date).
func (r *OverShortRepo) PutOverShort(ctx context.Context, rec *recon.Record) error {
	payload, err := json.Marshal(rec.OverShort)
	if err != nil {
		return fmt.Errorf("marshal overshort: %w", err)
	}

	q := r.builder.Insert(overShortTable).
		Columns(overShortColumns...).
		Values(rec.StationID, period.DayOf(rec.Date), rec.Year, int(rec.YearMonth), payload).
		Suffix(`ON CONFLICT (station_id, date) DO UPDATE SET
			year = EXCLUDED.year,
			year_month = EXCLUDED.year_month,
			overshort = EXCLUDED.overshort`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert overshort: %w", err)
	}
	return nil
}

// GetOverShort returns the record for a station/date, or NotFound.
func (r *OverShortRepo) GetOverShort(ctx context.Context, stationID string, date time.Time) (*recon.Record, error) {
	q := r.builder.Select(overShortColumns...).
		From(overShortTable).
		Where(squirrel.Eq{"station_id": stationID, "date": period.DayOf(date)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row overShortRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("overshort", stationID+"/"+period.FormatDate(date))
		}
		return nil, fmt.Errorf("get overshort: %w", err)
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOverShortRange returns records for a station with date in [from, to].
func (r *OverShortRepo) GetOverShortRange(ctx context.Context, stationID string, from, to time.Time) ([]recon.Record, error) {
	return r.selectRecords(ctx, squirrel.And{
		squirrel.Eq{"station_id": stationID},
		squirrel.GtOrEq{"date": period.DayOf(from)},
		squirrel.LtOrEq{"date": period.DayOf(to)},
	})
}

// GetOverShortByYear returns all records of a station for one year.
func (r *OverShortRepo) GetOverShortByYear(ctx context.Context, stationID string, year int) ([]recon.Record, error) {
	return r.selectRecords(ctx, squirrel.Eq{"station_id": stationID, "year": year})
}

func (r *OverShortRepo) selectRecords(ctx context.Context, where squirrel.Sqlizer) ([]recon.Record, error) {
	q := r.builder.Select(overShortColumns...).
		From(overShortTable).
		Where(where).
		OrderBy("date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []overShortRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select overshort: %w", err)
	}

	records := make([]recon.Record, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ensure interface compliance.
var _ recon.Repository = (*OverShortRepo)(nil)
