package sale

import (
	"time"

	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
)

// SumByFuelType sums litres sold across records for each requested fuel
// type. Fuel types with no matching records yield explicit zeros, not
// absence - report columns must be stable.
func SumByFuelType(records []FuelSale, fuelTypes []fueltype.FuelType) map[fueltype.FuelType]types.Litres {
	totals := make(map[fueltype.FuelType]types.Litres, len(fuelTypes))
	for _, ft := range fuelTypes {
		totals[ft] = types.ZeroLitres()
	}
	for _, r := range records {
		for _, ft := range fuelTypes {
			totals[ft] = totals[ft].Add(r.Sales.Get(ft))
		}
	}
	return totals
}

// SumByGroup folds raw fuel types into report groups (NL+SNL, DSL+CDSL)
// and sums across records.
func SumByGroup(records []FuelSale) map[fueltype.Group]types.Litres {
	totals := make(map[fueltype.Group]types.Litres, len(fueltype.Groups()))
	for _, g := range fueltype.Groups() {
		totals[g] = types.ZeroLitres()
	}
	for _, r := range records {
		for ft, litres := range r.Sales {
			g := fueltype.GroupOf(ft)
			totals[g] = totals[g].Add(litres)
		}
	}
	return totals
}

// FilterByDate selects records on exactly the given day.
func FilterByDate(records []FuelSale, date time.Time) []FuelSale {
	day := period.DayOf(date)
	var out []FuelSale
	for _, r := range records {
		if period.DayOf(r.Date).Equal(day) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByRange selects records with date in [from, to], inclusive both ends.
func FilterByRange(records []FuelSale, from, to time.Time) []FuelSale {
	lo, hi := period.DayOf(from), period.DayOf(to)
	var out []FuelSale
	for _, r := range records {
		d := period.DayOf(r.Date)
		if !d.Before(lo) && !d.After(hi) {
			out = append(out, r)
		}
	}
	return out
}
