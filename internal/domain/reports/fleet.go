package reports

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/price"
	"fuelrecon/internal/domain/sale"
)

// FleetSalesSummary sums raw FuelSale records per station over [from, to],
// folding raw fuel types into report groups. One query runs per station,
// fanned out under a bounded worker pool so a large fleet cannot overwhelm
// the storage backend. Stations with no sales in the range are omitted.
func (s *Service) FleetSalesSummary(ctx context.Context, from, to time.Time) ([]StationSalesSummary, error) {
	if from.After(to) {
		return nil, apperror.NewValidation("dateFrom must not be after dateTo")
	}

	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*StationSalesSummary, len(stations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fleetWorkers)

	for i, st := range stations {
		g.Go(func() error {
			records, err := s.sales.GetSalesInRange(gctx, st.ID, from, to)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return nil
			}

			totals := sale.SumByGroup(records)
			rows[i] = &StationSalesSummary{
				StationID:   st.ID,
				StationName: st.Name,
				Totals:      totals,
				HasDSL:      totals[fueltype.GroupDSL].IsPositive(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Preserve the directory's name ordering.
	var out []StationSalesSummary
	for _, row := range rows {
		if row != nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

// FleetListReport builds the month-of-weeks fleet sales report: for every
// station, grouped sales per Sunday-start week of the month, plus per-week
// fleet totals and grand totals.
func (s *Service) FleetListReport(ctx context.Context, ym period.YearMonth) (*FleetListReport, error) {
	if !ym.Valid() {
		return nil, apperror.NewInvalidDate(ym.String())
	}

	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	weeks := period.MonthYearWeeks(ym)
	first, last := period.MonthBounds(ym)

	report := &FleetListReport{
		Period: ym,
		Header: make([]WeekHeader, 0, len(weeks)),
	}
	for _, w := range weeks {
		report.Header = append(report.Header, WeekHeader{
			YearWeek: w.YearWeek,
			Week:     w.YearWeek.Week(),
			Start:    w.Start,
			End:      w.End,
		})
	}

	var (
		mu   sync.Mutex
		rows = make([]*StationSales, len(stations))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fleetWorkers)

	for i, st := range stations {
		g.Go(func() error {
			records, err := s.sales.GetSalesInRange(gctx, st.ID, first, last)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return nil
			}

			// Prices average over full week windows, so the fetch starts at
			// the first week's Sunday even when that falls in the prior month.
			prices, err := s.prices.GetPricesInRange(gctx, st.ID, weeks[0].Start, weeks[len(weeks)-1].End)
			if err != nil {
				return err
			}

			row := &StationSales{
				StationID:   st.ID,
				StationName: st.Name,
				Total:       zeroGroupTotals(),
				FuelPrices:  price.WeekAverages(prices, weeks),
			}
			for _, w := range weeks {
				bucket := sale.FilterByRange(records, w.MonthStart, w.MonthEnd)
				totals := sale.SumByGroup(bucket)
				row.Periods = append(row.Periods, WeekSales{
					YearWeek: w.YearWeek,
					Start:    w.MonthStart,
					End:      w.MonthEnd,
					Sales:    totals,
				})
				for grp, v := range totals {
					row.Total[grp] = row.Total[grp].Add(v)
				}
			}

			mu.Lock()
			rows[i] = row
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row != nil {
			report.Stations = append(report.Stations, *row)
		}
	}

	report.PerWeek = fleetWeekTotals(report.Stations, weeks)
	report.Totals = zeroGroupTotals()
	for _, wt := range report.PerWeek {
		for grp, v := range wt.Totals {
			report.Totals[grp] = report.Totals[grp].Add(v)
		}
	}

	return report, nil
}

func fleetWeekTotals(stations []StationSales, weeks []period.WeekRange) []WeekTotals {
	out := make([]WeekTotals, 0, len(weeks))
	for _, w := range weeks {
		wt := WeekTotals{YearWeek: w.YearWeek, Totals: zeroGroupTotals()}
		for _, st := range stations {
			for _, p := range st.Periods {
				if p.YearWeek == w.YearWeek {
					for grp, v := range p.Sales {
						wt.Totals[grp] = wt.Totals[grp].Add(v)
					}
				}
			}
		}
		out = append(out, wt)
	}
	return out
}

func zeroGroupTotals() GroupTotals {
	totals := make(GroupTotals, len(fueltype.Groups()))
	for _, g := range fueltype.Groups() {
		totals[g] = types.ZeroLitres()
	}
	return totals
}
