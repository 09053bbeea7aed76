// Package fueltype defines the closed set of fuel types a station can carry
// and the coarser grouping used by fleet-level reports.
package fueltype

import (
	"fuelrecon/internal/core/apperror"
)

// FuelType identifies a raw fuel product measured at the pump and in tanks.
type FuelType string

const (
	NL   FuelType = "NL"   // regular gasoline
	SNL  FuelType = "SNL"  // premium gasoline
	DSL  FuelType = "DSL"  // diesel
	CDSL FuelType = "CDSL" // coloured (off-road) diesel
)

// All lists every known fuel type in stable report order.
func All() []FuelType {
	return []FuelType{NL, SNL, DSL, CDSL}
}

// IsValid reports whether ft belongs to the closed set.
func IsValid(ft FuelType) bool {
	switch ft {
	case NL, SNL, DSL, CDSL:
		return true
	}
	return false
}

// Parse validates a raw string against the closed set.
// Unknown fuel types are rejected at the boundary, never stored.
func Parse(s string) (FuelType, error) {
	ft := FuelType(s)
	if !IsValid(ft) {
		return "", apperror.NewUnknownFuelType(s)
	}
	return ft, nil
}

// Group identifies a report-level fuel category. Fleet reports fold the four
// raw types into two groups: both gasolines as NL, both diesels as DSL.
type Group string

const (
	GroupNL  Group = "NL"
	GroupDSL Group = "DSL"
)

// Groups lists the report groups in stable order.
func Groups() []Group {
	return []Group{GroupNL, GroupDSL}
}

// groupOf is the fixed, static grouping table.
var groupOf = map[FuelType]Group{
	NL:   GroupNL,
	SNL:  GroupNL,
	DSL:  GroupDSL,
	CDSL: GroupDSL,
}

// GroupOf returns the report group for a raw fuel type.
func GroupOf(ft FuelType) Group {
	return groupOf[ft]
}

// Dedupe returns the unique fuel types of ts preserving report order.
// Used to derive a station's fuel-type set from its tank configuration.
func Dedupe(ts []FuelType) []FuelType {
	seen := make(map[FuelType]bool, len(ts))
	for _, t := range ts {
		seen[t] = true
	}
	var out []FuelType
	for _, t := range All() {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}
