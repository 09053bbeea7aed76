package reports

import (
	"context"
	"fmt"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/delivery"
	"fuelrecon/internal/domain/price"
	"fuelrecon/internal/domain/recon"
	"fuelrecon/internal/domain/sale"
	"fuelrecon/internal/domain/station"
)

// Service provides report generation operations.
type Service struct {
	overshort  recon.Repository
	sales      sale.Repository
	deliveries delivery.Repository
	prices     price.Repository
	stations   *station.Service

	// fleetWorkers bounds the per-station fan-out of fleet reports.
	fleetWorkers int

	// now is injected for the "never report future months" rule.
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFleetWorkers sets the fleet fan-out concurrency bound.
func WithFleetWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fleetWorkers = n
		}
	}
}

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new reports service.
func NewService(overshort recon.Repository, sales sale.Repository, deliveries delivery.Repository, prices price.Repository, stations *station.Service, opts ...Option) *Service {
	s := &Service{
		overshort:    overshort,
		sales:        sales,
		deliveries:   deliveries,
		prices:       prices,
		stations:     stations,
		fleetWorkers: 8,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MonthlyOverShort scans the station's Over/Short records for one calendar
// month, reporting each day against the station's full configured fuel-type
// set and summing OverShort per fuel type across the month.
func (s *Service) MonthlyOverShort(ctx context.Context, stationID string, ym period.YearMonth) (*MonthlyReport, error) {
	if !ym.Valid() {
		return nil, apperror.NewInvalidDate(fmt.Sprintf("%d", ym))
	}

	fuelTypes, err := s.stations.FuelTypes(ctx, stationID)
	if err != nil {
		return nil, err
	}

	first, last := period.MonthBounds(ym)
	records, err := s.overshort.GetOverShortRange(ctx, stationID, first, last)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		StationID: stationID,
		Period:    ym,
		FuelTypes: fuelTypes,
		Summary:   zeroTotals(fuelTypes),
	}

	if len(records) == 0 {
		report.NoData = true
		return report, nil
	}

	for _, rec := range records {
		day := DayOverShort{
			Date: rec.Date,
			Data: make(map[fueltype.FuelType]recon.Entry, len(fuelTypes)),
		}
		for _, ft := range fuelTypes {
			entry, ok := rec.OverShort[ft]
			if !ok {
				// Roll-ups always show every configured fuel type; a day
				// where reconciliation had no baseline reports zeros.
				entry = recon.Entry{
					FuelType:   ft,
					TankLitres: types.ZeroLitres(),
					LitresSold: types.ZeroLitres(),
					OverShort:  types.ZeroLitres(),
				}
			}
			day.Data[ft] = entry
			report.Summary[ft] = report.Summary[ft].Add(entry.OverShort)
		}
		report.Days = append(report.Days, day)
	}

	return report, nil
}

// AnnualOverShort applies the same read-group-sum pattern at month
// granularity, January through the month containing "now".
func (s *Service) AnnualOverShort(ctx context.Context, stationID string, year int) (*AnnualReport, error) {
	if year < 1900 || year > 9999 {
		return nil, apperror.NewInvalidDate(fmt.Sprintf("%d", year))
	}

	fuelTypes, err := s.stations.FuelTypes(ctx, stationID)
	if err != nil {
		return nil, err
	}

	records, err := s.overshort.GetOverShortByYear(ctx, stationID, year)
	if err != nil {
		return nil, err
	}

	report := &AnnualReport{
		StationID: stationID,
		Year:      year,
		FuelTypes: fuelTypes,
		Summary:   zeroTotals(fuelTypes),
	}

	if len(records) == 0 {
		report.NoData = true
		return report, nil
	}

	byMonth := make(map[period.YearMonth][]recon.Record)
	for _, rec := range records {
		byMonth[rec.YearMonth] = append(byMonth[rec.YearMonth], rec)
	}

	for _, ym := range period.MonthsThrough(year, s.now()) {
		month := MonthOverShort{
			Period: ym,
			Totals: zeroTotals(fuelTypes),
		}
		for _, rec := range byMonth[ym] {
			for _, ft := range fuelTypes {
				if entry, ok := rec.OverShort[ft]; ok {
					month.Totals[ft] = month.Totals[ft].Add(entry.OverShort)
					report.Summary[ft] = report.Summary[ft].Add(entry.OverShort)
				}
			}
		}
		report.Months = append(report.Months, month)
	}

	return report, nil
}

// MonthlyDeliveries scans the station's delivery rows for one calendar month,
// summing tank-level litres into per-day, per-fuel-type figures plus a
// month summary.
func (s *Service) MonthlyDeliveries(ctx context.Context, stationID string, ym period.YearMonth) (*DeliveryReport, error) {
	if !ym.Valid() {
		return nil, apperror.NewInvalidDate(fmt.Sprintf("%d", ym))
	}

	fuelTypes, err := s.stations.FuelTypes(ctx, stationID)
	if err != nil {
		return nil, err
	}

	first, last := period.MonthBounds(ym)
	rows, err := s.deliveries.GetByStationRange(ctx, stationID, first, last)
	if err != nil {
		return nil, err
	}

	report := &DeliveryReport{
		StationID: stationID,
		Period:    ym,
		FuelTypes: fuelTypes,
		Summary:   zeroTotals(fuelTypes),
	}

	if len(rows) == 0 {
		report.NoData = true
		return report, nil
	}

	// Rows arrive date-ordered; fold same-day tank deliveries into one entry.
	for _, d := range rows {
		day := period.DayOf(d.Date)
		if len(report.Days) == 0 || !report.Days[len(report.Days)-1].Date.Equal(day) {
			report.Days = append(report.Days, DayDeliveries{
				Date: day,
				Data: make(map[fueltype.FuelType]types.Litres, len(fuelTypes)),
			})
		}
		entry := &report.Days[len(report.Days)-1]
		entry.Data[d.FuelType] = entry.Data[d.FuelType].Add(d.Litres)
		report.Summary[d.FuelType] = report.Summary[d.FuelType].Add(d.Litres)
	}

	return report, nil
}

func zeroTotals(fuelTypes []fueltype.FuelType) map[fueltype.FuelType]types.Litres {
	totals := make(map[fueltype.FuelType]types.Litres, len(fuelTypes))
	for _, ft := range fuelTypes {
		totals[ft] = types.ZeroLitres()
	}
	return totals
}
