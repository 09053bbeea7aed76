package recon

import (
	"context"
	"sync"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/delivery"
	"fuelrecon/internal/domain/dip"
	"fuelrecon/internal/domain/sale"
	"fuelrecon/pkg/logger"
)

// Engine computes and persists Over/Short records. All reads go through the
// injected repositories; the engine holds no caches and no process-wide
// state, so repeated invocation with unchanged source data yields an
// identical record.
//
// Two overlapping runs for the same (station, date) are serialized by a
// process-local mutex. The storage collaborator gives no transactional
// guarantee across the dip and sale reads, so a concurrent dip rewrite in
// another process remains implementation-defined.
type Engine struct {
	dips       dip.Repository
	deliveries delivery.Repository
	sales      sale.Repository
	store      Repository

	locks keyedMutex
}

// NewEngine creates a reconciliation engine.
func NewEngine(dips dip.Repository, deliveries delivery.Repository, sales sale.Repository, store Repository) *Engine {
	return &Engine{
		dips:       dips,
		deliveries: deliveries,
		sales:      sales,
		store:      store,
	}
}

// ReconcileStationDay computes the Over/Short record for one station-day
// and persists it as a single wholesale upsert. Any failure prevents the
// write; re-running after the cause is fixed produces an identical,
// idempotent recomputation.
func (e *Engine) ReconcileStationDay(ctx context.Context, stationID string, date time.Time) (*Record, error) {
	if stationID == "" {
		return nil, apperror.NewValidation("station is required").WithDetail("field", "stationId")
	}
	if date.IsZero() {
		return nil, apperror.NewInvalidDate("")
	}
	day := period.DayOf(date)

	unlock := e.locks.lock(stationID + "|" + period.FormatDate(day))
	defer unlock()

	prevDay := period.PrevDay(day)

	dips, err := e.dips.GetDipsInRange(ctx, stationID, prevDay, day)
	if err != nil {
		return nil, err
	}

	// Litres per fuel type for each of the two days. A station may have
	// multiple tanks per fuel type; their dips sum.
	prevLitres := make(map[fueltype.FuelType]types.Litres)
	curLitres := make(map[fueltype.FuelType]types.Litres)
	for _, d := range dips {
		switch {
		case period.DayOf(d.Date).Equal(prevDay):
			prevLitres[d.FuelType] = prevLitres[d.FuelType].Add(d.Litres)
		case period.DayOf(d.Date).Equal(day):
			curLitres[d.FuelType] = curLitres[d.FuelType].Add(d.Litres)
		}
	}

	// Deliveries inflate the tank level and must not be counted as sold.
	deliveries, err := e.deliveries.GetByStationDate(ctx, stationID, day)
	if err != nil {
		return nil, err
	}
	delivered := make(map[fueltype.FuelType]types.Litres)
	for _, dl := range deliveries {
		delivered[dl.FuelType] = delivered[dl.FuelType].Add(dl.Litres)
	}

	// A fuel type without a non-zero prior-day reading has no baseline and
	// cannot yield a meaningful Over/Short: exclude it entirely, whatever
	// today's dips or sales say.
	netConsumed := make(map[fueltype.FuelType]types.Litres)
	for ft, prev := range prevLitres {
		if prev.IsZero() {
			continue
		}
		cur := curLitres[ft].Sub(delivered[ft])
		netConsumed[ft] = prev.Sub(cur)
	}

	// The sales baseline is a hard dependency: without it the whole
	// consumption would read as shortage.
	saleRec, err := e.sales.GetSale(ctx, stationID, day)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMissingFuelSale(stationID, period.FormatDate(day))
		}
		return nil, err
	}

	overShort := make(map[fueltype.FuelType]Entry, len(netConsumed))
	for ft, consumed := range netConsumed {
		sold := saleRec.Sales.Get(ft)
		overShort[ft] = Entry{
			FuelType:   ft,
			TankLitres: consumed,
			LitresSold: sold,
			OverShort:  sold.Sub(consumed),
		}
	}

	rec := &Record{
		StationID: stationID,
		Date:      day,
		Year:      day.Year(),
		YearMonth: period.YM(day),
		OverShort: overShort,
	}

	if err := e.store.PutOverShort(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info(ctx, "over/short reconciled",
		"station_id", stationID,
		"date", period.FormatDate(day),
		"fuel_types", len(overShort),
	)
	return rec, nil
}

// keyedMutex serializes work per string key.
type keyedMutex struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (km *keyedMutex) lock(key string) (unlock func()) {
	km.mu.Lock()
	if km.keys == nil {
		km.keys = make(map[string]*keyLock)
	}
	kl, ok := km.keys[key]
	if !ok {
		kl = &keyLock{}
		km.keys[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		km.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(km.keys, key)
		}
		km.mu.Unlock()
	}
}
