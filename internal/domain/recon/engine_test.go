package recon

import (
	"context"
	"testing"
	"time"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/delivery"
	"fuelrecon/internal/domain/dip"
	"fuelrecon/internal/domain/sale"
)

// Mock repositories

type mockDipRepo struct {
	readings []dip.Reading
}

func (m *mockDipRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]dip.Reading, error) {
	var out []dip.Reading
	for _, r := range m.readings {
		if r.StationID == stationID && period.DayOf(r.Date).Equal(period.DayOf(date)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockDipRepo) GetDipsInRange(ctx context.Context, stationID string, from, to time.Time) ([]dip.Reading, error) {
	var out []dip.Reading
	for _, r := range m.readings {
		d := period.DayOf(r.Date)
		if r.StationID == stationID && !d.Before(period.DayOf(from)) && !d.After(period.DayOf(to)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockDipRepo) Upsert(ctx context.Context, r *dip.Reading) error {
	m.readings = append(m.readings, *r)
	return nil
}

type mockDeliveryRepo struct {
	deliveries []delivery.Delivery
}

func (m *mockDeliveryRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]delivery.Delivery, error) {
	var out []delivery.Delivery
	for _, d := range m.deliveries {
		if d.StationID == stationID && period.DayOf(d.Date).Equal(period.DayOf(date)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) GetByStationRange(ctx context.Context, stationID string, from, to time.Time) ([]delivery.Delivery, error) {
	var out []delivery.Delivery
	for _, d := range m.deliveries {
		day := period.DayOf(d.Date)
		if d.StationID == stationID && !day.Before(period.DayOf(from)) && !day.After(period.DayOf(to)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) GetByTankDate(ctx context.Context, stationTankID string, date time.Time) (*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) Upsert(ctx context.Context, d *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepo) Delete(ctx context.Context, stationTankID string, date time.Time) error {
	return nil
}

type mockSaleRepo struct {
	sales map[string]*sale.FuelSale // key: stationID|date
}

func saleKey(stationID string, date time.Time) string {
	return stationID + "|" + period.FormatDate(date)
}

func (m *mockSaleRepo) GetSale(ctx context.Context, stationID string, date time.Time) (*sale.FuelSale, error) {
	if s, ok := m.sales[saleKey(stationID, date)]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("fuel sale", saleKey(stationID, date))
}

func (m *mockSaleRepo) GetSalesInRange(ctx context.Context, stationID string, from, to time.Time) ([]sale.FuelSale, error) {
	return nil, nil
}

type mockStore struct {
	puts []Record
}

func (m *mockStore) PutOverShort(ctx context.Context, rec *Record) error {
	m.puts = append(m.puts, *rec)
	return nil
}

func (m *mockStore) GetOverShort(ctx context.Context, stationID string, date time.Time) (*Record, error) {
	return nil, apperror.NewNotFound("overshort", stationID)
}

func (m *mockStore) GetOverShortRange(ctx context.Context, stationID string, from, to time.Time) ([]Record, error) {
	return nil, nil
}

func (m *mockStore) GetOverShortByYear(ctx context.Context, stationID string, year int) ([]Record, error) {
	return nil, nil
}

// Fixture helpers

var (
	testDay = time.Date(2020, time.June, 10, 0, 0, 0, 0, time.UTC)
	prevDay = testDay.AddDate(0, 0, -1)
)

func reading(stationID, tankID string, ft fueltype.FuelType, date time.Time, litres string) dip.Reading {
	return dip.Reading{
		StationID:     stationID,
		StationTankID: tankID,
		FuelType:      ft,
		Date:          date,
		Litres:        types.MustLitres(litres),
	}
}

func newTestEngine(dips *mockDipRepo, dels *mockDeliveryRepo, sales *mockSaleRepo, store *mockStore) *Engine {
	if dels == nil {
		dels = &mockDeliveryRepo{}
	}
	return NewEngine(dips, dels, sales, store)
}

func TestReconcileStationDay_DeliveryCorrection(t *testing.T) {
	// Opening 1000, closing 850 after a 200 delivery: net consumption is
	// 1000 - (850 - 200) = 350, exactly what was sold.
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T1", fueltype.NL, testDay, "850"),
	}}
	dels := &mockDeliveryRepo{deliveries: []delivery.Delivery{{
		StationID: "ST1", StationTankID: "T1", FuelType: fueltype.NL,
		Date: testDay, Litres: types.MustLitres("200"),
	}}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{
			fueltype.NL: types.MustLitres("350"),
		}},
	}}
	store := &mockStore{}

	rec, err := newTestEngine(dips, dels, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := rec.OverShort[fueltype.NL]
	if !ok {
		t.Fatal("NL entry missing")
	}
	if !entry.TankLitres.Equal(types.MustLitres("350")) {
		t.Errorf("TankLitres = %s, want 350", entry.TankLitres)
	}
	if !entry.OverShort.IsZero() {
		t.Errorf("OverShort = %s, want 0", entry.OverShort)
	}
	if len(store.puts) != 1 {
		t.Fatalf("expected 1 write, got %d", len(store.puts))
	}
	if rec.Year != 2020 || rec.YearMonth != 202006 {
		t.Errorf("bucket keys wrong: year=%d ym=%d", rec.Year, rec.YearMonth)
	}
}

func TestReconcileStationDay_Shortage(t *testing.T) {
	// Consumed 300 but sold only 250: 50 litres short.
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T1", fueltype.NL, testDay, "700"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{
			fueltype.NL: types.MustLitres("250"),
		}},
	}}
	store := &mockStore{}

	rec, err := newTestEngine(dips, nil, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := rec.OverShort[fueltype.NL]
	if !entry.OverShort.Equal(types.MustLitres("-50")) {
		t.Errorf("OverShort = %s, want -50", entry.OverShort)
	}
}

func TestReconcileStationDay_MultipleTanksSum(t *testing.T) {
	// Two NL tanks: dips sum per fuel type before reconciliation.
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "600"),
		reading("ST1", "T2", fueltype.NL, prevDay, "400"),
		reading("ST1", "T1", fueltype.NL, testDay, "500"),
		reading("ST1", "T2", fueltype.NL, testDay, "350"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{
			fueltype.NL: types.MustLitres("150"),
		}},
	}}
	store := &mockStore{}

	rec, err := newTestEngine(dips, nil, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := rec.OverShort[fueltype.NL]
	if !entry.TankLitres.Equal(types.MustLitres("150")) {
		t.Errorf("TankLitres = %s, want 150", entry.TankLitres)
	}
	if !entry.OverShort.IsZero() {
		t.Errorf("OverShort = %s, want 0", entry.OverShort)
	}
}

func TestReconcileStationDay_NoBaselineExcluded(t *testing.T) {
	// DSL has a zero prior-day reading and SNL has none at all: both are
	// excluded whatever today's dips or sales say.
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T2", fueltype.DSL, prevDay, "0"),
		reading("ST1", "T1", fueltype.NL, testDay, "900"),
		reading("ST1", "T2", fueltype.DSL, testDay, "800"),
		reading("ST1", "T3", fueltype.SNL, testDay, "500"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{
			fueltype.NL:  types.MustLitres("100"),
			fueltype.DSL: types.MustLitres("90"),
			fueltype.SNL: types.MustLitres("80"),
		}},
	}}
	store := &mockStore{}

	rec, err := newTestEngine(dips, nil, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.OverShort) != 1 {
		t.Fatalf("expected only NL, got %v", rec.OverShort)
	}
	if _, ok := rec.OverShort[fueltype.NL]; !ok {
		t.Error("NL entry missing")
	}
}

func TestReconcileStationDay_MissingSaleIsFatal(t *testing.T) {
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T1", fueltype.NL, testDay, "900"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{}}
	store := &mockStore{}

	_, err := newTestEngine(dips, nil, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperror.IsMissingFuelSale(err) {
		t.Errorf("expected MissingFuelSale, got %v", err)
	}
	// Nothing may be written on failure.
	if len(store.puts) != 0 {
		t.Errorf("expected no writes, got %d", len(store.puts))
	}
}

func TestReconcileStationDay_SoldButNoSaleEntry(t *testing.T) {
	// The sale record exists but lacks the NL key: sold reads as zero and
	// the whole consumption reports as shortage.
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T1", fueltype.NL, testDay, "900"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{}},
	}}
	store := &mockStore{}

	rec, err := newTestEngine(dips, nil, sales, store).ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := rec.OverShort[fueltype.NL]
	if !entry.OverShort.Equal(types.MustLitres("-100")) {
		t.Errorf("OverShort = %s, want -100", entry.OverShort)
	}
}

func TestReconcileStationDay_Idempotent(t *testing.T) {
	dips := &mockDipRepo{readings: []dip.Reading{
		reading("ST1", "T1", fueltype.NL, prevDay, "1000"),
		reading("ST1", "T1", fueltype.NL, testDay, "850"),
	}}
	sales := &mockSaleRepo{sales: map[string]*sale.FuelSale{
		saleKey("ST1", testDay): {StationID: "ST1", Date: testDay, Sales: sale.SalesMap{
			fueltype.NL: types.MustLitres("150"),
		}},
	}}
	store := &mockStore{}
	engine := newTestEngine(dips, nil, sales, store)

	first, err := engine.ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.ReconcileStationDay(context.Background(), "ST1", testDay)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(store.puts) != 2 {
		t.Fatalf("expected 2 wholesale writes, got %d", len(store.puts))
	}
	fe, se := first.OverShort[fueltype.NL], second.OverShort[fueltype.NL]
	if !fe.OverShort.Equal(se.OverShort) || !fe.TankLitres.Equal(se.TankLitres) {
		t.Error("reruns must produce identical records")
	}
}

func TestReconcileStationDay_Validation(t *testing.T) {
	engine := newTestEngine(&mockDipRepo{}, nil, &mockSaleRepo{}, &mockStore{})

	if _, err := engine.ReconcileStationDay(context.Background(), "", testDay); err == nil {
		t.Error("expected error for empty station")
	}
	if _, err := engine.ReconcileStationDay(context.Background(), "ST1", time.Time{}); err == nil {
		t.Error("expected error for zero date")
	}
}
