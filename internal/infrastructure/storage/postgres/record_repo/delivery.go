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
	"fuelrecon/internal/domain/delivery"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

const deliveriesTable = "deliveries"

// DeliveryRepo implements delivery.Repository.
type DeliveryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(txm *postgres.TxManager) *DeliveryRepo {
	return &DeliveryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type deliveryRow struct {
	StationID     string    `db:"station_id"`
	StationTankID string    `db:"station_tank_id"`
	FuelType      string    `db:"fuel_type"`
	Date          time.Time `db:"date"`
	Litres        string    `db:"litres"`
}

var deliveryColumns = []string{
	"station_id", "station_tank_id", "fuel_type", "date",
	"litres::text AS litres",
}

func (row *deliveryRow) toDelivery() (delivery.Delivery, error) {
	ft, err := fueltype.Parse(row.FuelType)
	if err != nil {
		return delivery.Delivery{}, apperror.NewMalformedRecord("delivery", "fuel_type", row.FuelType).
			WithDetail("station_tank_id", row.StationTankID).
			WithDetail("date", period.FormatDate(row.Date))
	}
	litres, err := types.NewLitresFromString(row.Litres)
	if err != nil {
		return delivery.Delivery{}, apperror.NewMalformedRecord("delivery", "litres", row.Litres).
			WithDetail("station_tank_id", row.StationTankID).
			WithDetail("date", period.FormatDate(row.Date)).
			WithCause(err)
	}
	return delivery.Delivery{
		StationID:     row.StationID,
		StationTankID: row.StationTankID,
		FuelType:      ft,
		Date:          period.DayOf(row.Date),
		Litres:        litres,
	}, nil
}

// GetByStationDate returns all deliveries for a station on a date.
func (r *DeliveryRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]delivery.Delivery, error) {
	return r.selectDeliveries(ctx, squirrel.Eq{"station_id": stationID, "date": period.DayOf(date)})
}

// GetByStationRange returns deliveries for a station with date in [from, to].
func (r *DeliveryRepo) GetByStationRange(ctx context.Context, stationID string, from, to time.Time) ([]delivery.Delivery, error) {
	return r.selectDeliveries(ctx, squirrel.And{
		squirrel.Eq{"station_id": stationID},
		squirrel.GtOrEq{"date": period.DayOf(from)},
		squirrel.LtOrEq{"date": period.DayOf(to)},
	})
}

func (r *DeliveryRepo) selectDeliveries(ctx context.Context, where squirrel.Sqlizer) ([]delivery.Delivery, error) {
	q := r.builder.Select(deliveryColumns...).
		From(deliveriesTable).
		Where(where).
		OrderBy("date", "station_tank_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []deliveryRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select deliveries: %w", err)
	}

	deliveries := make([]delivery.Delivery, 0, len(rows))
	for i := range rows {
		d, err := rows[i].toDelivery()
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

// GetByTankDate returns the delivery paired with a tank/date, or nil.
func (r *DeliveryRepo) GetByTankDate(ctx context.Context, stationTankID string, date time.Time) (*delivery.Delivery, error) {
	q := r.builder.Select(deliveryColumns...).
		From(deliveriesTable).
		Where(squirrel.Eq{"station_tank_id": stationTankID, "date": period.DayOf(date)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row deliveryRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	d, err := row.toDelivery()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Upsert creates or replaces the delivery for (stationTankID, date).
func (r *DeliveryRepo) Upsert(ctx context.Context, d *delivery.Delivery) error {
	q := r.builder.Insert(deliveriesTable).
		Columns("station_id", "station_tank_id", "fuel_type", "date", "litres").
		Values(
			d.StationID, d.StationTankID, string(d.FuelType),
			period.DayOf(d.Date), d.Litres.String(),
		).
		Suffix(`ON CONFLICT (station_tank_id, date) DO UPDATE SET
			station_id = EXCLUDED.station_id,
			fuel_type = EXCLUDED.fuel_type,
			litres = EXCLUDED.litres`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert delivery: %w", err)
	}
	return nil
}

// Delete removes the delivery for (stationTankID, date). Missing rows are
// not an error.
func (r *DeliveryRepo) Delete(ctx context.Context, stationTankID string, date time.Time) error {
	q := r.builder.Delete(deliveriesTable).
		Where(squirrel.Eq{"station_tank_id": stationTankID, "date": period.DayOf(date)})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ delivery.Repository = (*DeliveryRepo)(nil)
