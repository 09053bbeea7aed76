package dip

import (
	"context"
	"errors"
	"testing"
	"time"

	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/delivery"
)

// Mock collaborators

type mockRepo struct {
	upserts []Reading
}

func (m *mockRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]Reading, error) {
	return nil, nil
}

func (m *mockRepo) GetDipsInRange(ctx context.Context, stationID string, from, to time.Time) ([]Reading, error) {
	return nil, nil
}

func (m *mockRepo) Upsert(ctx context.Context, r *Reading) error {
	m.upserts = append(m.upserts, *r)
	return nil
}

type mockDeliveryRepo struct {
	upserts []delivery.Delivery
	deletes []string
}

func (m *mockDeliveryRepo) GetByStationDate(ctx context.Context, stationID string, date time.Time) ([]delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) GetByStationRange(ctx context.Context, stationID string, from, to time.Time) ([]delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) GetByTankDate(ctx context.Context, stationTankID string, date time.Time) (*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) Upsert(ctx context.Context, d *delivery.Delivery) error {
	m.upserts = append(m.upserts, *d)
	return nil
}

func (m *mockDeliveryRepo) Delete(ctx context.Context, stationTankID string, date time.Time) error {
	m.deletes = append(m.deletes, stationTankID+"|"+period.FormatDate(date))
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type reconCall struct {
	stationID string
	date      time.Time
}

type auditCall struct {
	stationID string
	date      time.Time
	rows      []Input
}

type mockAudit struct {
	calls   int
	entries []auditCall
	err     error
}

func (m *mockAudit) RecordDipBatch(ctx context.Context, stationID string, date time.Time, payload any) error {
	m.calls++
	rows, _ := payload.([]Input)
	m.entries = append(m.entries, auditCall{stationID, date, rows})
	return m.err
}

var batchDay = time.Date(2020, time.June, 10, 0, 0, 0, 0, time.UTC)

func input(tankID string, ft fueltype.FuelType, litres string, delivered *string) Input {
	in := Input{Reading: Reading{
		StationID:     "ST1",
		StationTankID: tankID,
		FuelType:      ft,
		Date:          batchDay,
		Level:         42,
		Litres:        types.MustLitres(litres),
	}}
	if delivered != nil {
		d := types.MustLitres(*delivered)
		in.Delivery = &d
	}
	return in
}

func strPtr(s string) *string { return &s }

func TestCreateBatch_PairsDeliveries(t *testing.T) {
	repo := &mockRepo{}
	dels := &mockDeliveryRepo{}
	txm := &mockTxManager{}
	var recons []reconCall
	svc := NewService(repo, dels, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		recons = append(recons, reconCall{stationID, date})
		return nil
	}), nil, txm)

	result, err := svc.CreateBatch(context.Background(), []Input{
		input("T1", fueltype.NL, "850", strPtr("200")),
		input("T2", fueltype.DSL, "400", nil),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txm.calls != 1 {
		t.Errorf("expected one transaction, got %d", txm.calls)
	}
	if len(repo.upserts) != 2 {
		t.Fatalf("expected 2 dip upserts, got %d", len(repo.upserts))
	}

	// Carrying a delivery creates the paired row; omitting one removes it.
	if len(dels.upserts) != 1 || dels.upserts[0].StationTankID != "T1" {
		t.Errorf("unexpected delivery upserts: %v", dels.upserts)
	}
	if !dels.upserts[0].Litres.Equal(types.MustLitres("200")) {
		t.Errorf("delivery litres = %s", dels.upserts[0].Litres)
	}
	if len(dels.deletes) != 1 || dels.deletes[0] != "T2|2020-06-10" {
		t.Errorf("unexpected delivery deletes: %v", dels.deletes)
	}

	if result.Modified != 2 {
		t.Errorf("Modified = %d, want 2", result.Modified)
	}

	// Two rows for one station-day trigger exactly one reconciliation.
	if len(recons) != 1 {
		t.Fatalf("expected 1 reconciliation, got %d", len(recons))
	}
	if recons[0].stationID != "ST1" || !recons[0].date.Equal(batchDay) {
		t.Errorf("unexpected reconciliation call: %+v", recons[0])
	}
}

func TestCreateBatch_OneReconciliationPerStationDay(t *testing.T) {
	var recons []reconCall
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		recons = append(recons, reconCall{stationID, date})
		return nil
	}), nil, &mockTxManager{})

	in2 := input("T3", fueltype.NL, "100", nil)
	in2.Date = batchDay.AddDate(0, 0, 1)
	in3 := input("T4", fueltype.NL, "100", nil)
	in3.StationID = "ST2"

	_, err := svc.CreateBatch(context.Background(), []Input{
		input("T1", fueltype.NL, "850", nil),
		input("T2", fueltype.DSL, "400", nil),
		in2,
		in3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recons) != 3 {
		t.Fatalf("expected 3 reconciliations, got %d", len(recons))
	}
}

func TestCreateBatch_AuditRowsPerStationDay(t *testing.T) {
	audit := &mockAudit{}
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		return nil
	}), audit, &mockTxManager{})

	other := input("T3", fueltype.NL, "100", nil)
	other.StationID = "ST2"

	_, err := svc.CreateBatch(context.Background(), []Input{
		input("T1", fueltype.NL, "850", nil),
		input("T2", fueltype.DSL, "400", nil),
		other,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each audit entry carries only its own station-day's rows, not the
	// whole batch.
	if audit.calls != 2 {
		t.Fatalf("expected 2 audit entries, got %d", audit.calls)
	}
	if len(audit.entries[0].rows) != 2 || audit.entries[0].stationID != "ST1" {
		t.Errorf("first entry: station %s, %d rows", audit.entries[0].stationID, len(audit.entries[0].rows))
	}
	if len(audit.entries[1].rows) != 1 || audit.entries[1].stationID != "ST2" {
		t.Errorf("second entry: station %s, %d rows", audit.entries[1].stationID, len(audit.entries[1].rows))
	}
	for _, entry := range audit.entries {
		for _, row := range entry.rows {
			if row.StationID != entry.stationID {
				t.Errorf("entry for %s carries row for %s", entry.stationID, row.StationID)
			}
		}
	}
}

func TestCreateBatch_Validation(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		t.Fatal("reconciler must not run for invalid batches")
		return nil
	}), nil, &mockTxManager{})

	if _, err := svc.CreateBatch(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}

	bad := input("T1", fueltype.NL, "100", nil)
	bad.Litres = types.MustLitres("-5")
	if _, err := svc.CreateBatch(context.Background(), []Input{bad}); err == nil {
		t.Error("expected error for negative litres")
	}

	if _, err := svc.CreateBatch(context.Background(), []Input{
		input("T1", fueltype.NL, "100", strPtr("-10")),
	}); err == nil {
		t.Error("expected error for negative delivery")
	}
}

func TestCreateBatch_ReconcileErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		return wantErr
	}), nil, &mockTxManager{})

	_, err := svc.CreateBatch(context.Background(), []Input{input("T1", fueltype.NL, "100", nil)})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected reconciler error, got %v", err)
	}
}

func TestCreateBatch_AuditFailureIsNotFatal(t *testing.T) {
	audit := &mockAudit{err: errors.New("audit down")}
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		return nil
	}), audit, &mockTxManager{})

	_, err := svc.CreateBatch(context.Background(), []Input{input("T1", fueltype.NL, "100", nil)})
	if err != nil {
		t.Fatalf("audit failure must not fail the batch: %v", err)
	}
	if audit.calls != 1 {
		t.Errorf("expected audit to be attempted once, got %d", audit.calls)
	}
}

func TestGetRange_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockDeliveryRepo{}, nil, nil, &mockTxManager{})
	_, err := svc.GetRange(context.Background(), "ST1", batchDay, batchDay.AddDate(0, 0, -1))
	if err == nil {
		t.Error("expected error for from after to")
	}
}
