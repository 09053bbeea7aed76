package fueltype

import (
	"testing"

	"fuelrecon/internal/core/apperror"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"NL", "SNL", "DSL", "CDSL"} {
		ft, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", s, err)
		}
		if string(ft) != s {
			t.Errorf("Parse(%q) = %q", s, ft)
		}
	}

	for _, s := range []string{"", "nl", "PETROL", "NL "} {
		_, err := Parse(s)
		if err == nil {
			t.Errorf("expected error for %q", s)
			continue
		}
		if !apperror.HasCode(err, apperror.CodeUnknownFuelType) {
			t.Errorf("expected UnknownFuelType for %q, got %v", s, err)
		}
	}
}

func TestGroupOf(t *testing.T) {
	tests := []struct {
		ft   FuelType
		want Group
	}{
		{NL, GroupNL},
		{SNL, GroupNL},
		{DSL, GroupDSL},
		{CDSL, GroupDSL},
	}
	for _, tt := range tests {
		if got := GroupOf(tt.ft); got != tt.want {
			t.Errorf("GroupOf(%s) = %s, want %s", tt.ft, got, tt.want)
		}
	}
}

func TestDedupe(t *testing.T) {
	// Input order does not matter; output follows report order.
	got := Dedupe([]FuelType{CDSL, NL, NL, CDSL})
	if len(got) != 2 || got[0] != NL || got[1] != CDSL {
		t.Errorf("unexpected result: %v", got)
	}

	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}

	got = Dedupe([]FuelType{DSL, SNL, NL, CDSL})
	want := All()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected report order %v, got %v", want, got)
		}
	}
}
