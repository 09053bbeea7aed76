package record_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/domain/sale"
	"fuelrecon/internal/infrastructure/storage/postgres"
)

const fuelSalesTable = "fuel_sales"

// SaleRepo implements sale.Repository. The table is written by the import
// pipeline; this repo only reads it.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new fuel sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// saleRow scans the sales JSONB as raw bytes; sale.ParseSalesMap is the
// single place malformed stored values are rejected.
type saleRow struct {
	StationID string    `db:"station_id"`
	Date      time.Time `db:"date"`
	YearWeek  int       `db:"year_week"`
	Sales     []byte    `db:"sales"`
}

var saleColumns = []string{"station_id", "date", "year_week", "sales"}

func (row *saleRow) toFuelSale() (sale.FuelSale, error) {
	date := period.DayOf(row.Date)

	var raw map[string]string
	if err := json.Unmarshal(row.Sales, &raw); err != nil {
		return sale.FuelSale{}, apperror.NewMalformedRecord("fuel sale", "sales", string(row.Sales)).
			WithDetail("station_id", row.StationID).
			WithDetail("date", period.FormatDate(date)).
			WithCause(err)
	}
	sales, err := sale.ParseSalesMap(row.StationID, date, raw)
	if err != nil {
		return sale.FuelSale{}, err
	}

	return sale.FuelSale{
		StationID: row.StationID,
		Date:      date,
		YearWeek:  period.YearWeek(row.YearWeek),
		Sales:     sales,
	}, nil
}

// GetSale returns the sale record for a station/date, or NotFound.
func (r *SaleRepo) GetSale(ctx context.Context, stationID string, date time.Time) (*sale.FuelSale, error) {
	q := r.builder.Select(saleColumns...).
		From(fuelSalesTable).
		Where(squirrel.Eq{"station_id": stationID, "date": period.DayOf(date)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row saleRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fuel sale", stationID+"/"+period.FormatDate(date))
		}
		return nil, fmt.Errorf("get fuel sale: %w", err)
	}

	fs, err := row.toFuelSale()
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// GetSalesInRange returns sale records for a station with date in [from, to].
func (r *SaleRepo) GetSalesInRange(ctx context.Context, stationID string, from, to time.Time) ([]sale.FuelSale, error) {
	q := r.builder.Select(saleColumns...).
		From(fuelSalesTable).
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

	var rows []saleRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select fuel sales: %w", err)
	}

	sales := make([]sale.FuelSale, 0, len(rows))
	for i := range rows {
		fs, err := rows[i].toFuelSale()
		if err != nil {
			return nil, err
		}
		sales = append(sales, fs)
	}
	return sales, nil
}

// Ensure interface compliance.
var _ sale.Repository = (*SaleRepo)(nil)
