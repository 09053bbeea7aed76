package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/price"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

// fuel_prices is read-only from this service; rows are posted by the
// head-office import pipeline.
const fuelPricesTable = "fuel_prices"

// PriceRepo implements price.Repository.
type PriceRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPriceRepo creates a new fuel price repository.
func NewPriceRepo(txm *postgres.TxManager) *PriceRepo {
	return &PriceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type priceRow struct {
	StationID string    `db:"station_id"`
	Date      time.Time `db:"date"`
	Price     string    `db:"price"`
}

var priceColumns = []string{
	"station_id", "date", "price::text AS price",
}

func (row *priceRow) toFuelPrice() (price.FuelPrice, error) {
	p, err := types.NewPriceFromString(row.Price)
	if err != nil {
		return price.FuelPrice{}, apperror.NewMalformedRecord("fuel price", "price", row.Price).
			WithDetail("station_id", row.StationID).
			WithDetail("date", period.FormatDate(row.Date)).
			WithCause(err)
	}
	return price.FuelPrice{
		StationID: row.StationID,
		Date:      period.DayOf(row.Date),
		Price:     p,
	}, nil
}

// GetPrice returns the posted price for a station/date, or NotFound.
func (r *PriceRepo) GetPrice(ctx context.Context, stationID string, date time.Time) (*price.FuelPrice, error) {
	q := r.builder.Select(priceColumns...).
		From(fuelPricesTable).
		Where(squirrel.Eq{"station_id": stationID, "date": period.DayOf(date)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row priceRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fuel price", stationID+"/"+period.FormatDate(date))
		}
		return nil, fmt.Errorf("get fuel price: %w", err)
	}

	p, err := row.toFuelPrice()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPricesInRange returns prices for a station with date in [from, to],
// ordered by date.
func (r *PriceRepo) GetPricesInRange(ctx context.Context, stationID string, from, to time.Time) ([]price.FuelPrice, error) {
	q := r.builder.Select(priceColumns...).
		From(fuelPricesTable).
		Where(squirrel.And{
			squirrel.Eq{"station_id": stationID},
			squirrel.GtOrEq{"date": period.DayOf(from)},
			squirrel.LtOrEq{"date": period.DayOf(to)},
		}).
		OrderBy("date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []priceRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select fuel prices: %w", err)
	}

	prices := make([]price.FuelPrice, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toFuelPrice()
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, nil
}

// Ensure interface compliance.
var _ price.Repository = (*PriceRepo)(nil)
