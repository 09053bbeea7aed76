package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/types"
)

func saleOn(d time.Time, sales SalesMap) FuelSale {
	return FuelSale{StationID: "ST1", Date: d, Sales: sales}
}

func TestSumByFuelType(t *testing.T) {
	d := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []FuelSale{
		saleOn(d, SalesMap{fueltype.NL: types.MustLitres("100.5"), fueltype.DSL: types.MustLitres("50")}),
		saleOn(d.AddDate(0, 0, 1), SalesMap{fueltype.NL: types.MustLitres("99.5")}),
	}

	totals := SumByFuelType(records, fueltype.All())

	assert.True(t, totals[fueltype.NL].Equal(types.MustLitres("200")))
	assert.True(t, totals[fueltype.DSL].Equal(types.MustLitres("50")))
	// Fuel types with no sales are explicit zeros, not missing keys.
	v, ok := totals[fueltype.SNL]
	require.True(t, ok)
	assert.True(t, v.IsZero())
}

func TestSumByGroup(t *testing.T) {
	d := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []FuelSale{
		saleOn(d, SalesMap{
			fueltype.NL:  types.MustLitres("100"),
			fueltype.SNL: types.MustLitres("25.25"),
			fueltype.DSL: types.MustLitres("40"),
		}),
		saleOn(d.AddDate(0, 0, 1), SalesMap{
			fueltype.CDSL: types.MustLitres("10.75"),
		}),
	}

	totals := SumByGroup(records)

	assert.True(t, totals[fueltype.GroupNL].Equal(types.MustLitres("125.25")))
	assert.True(t, totals[fueltype.GroupDSL].Equal(types.MustLitres("50.75")))
}

func TestSumByGroupEmpty(t *testing.T) {
	totals := SumByGroup(nil)
	require.Len(t, totals, 2)
	assert.True(t, totals[fueltype.GroupNL].IsZero())
	assert.True(t, totals[fueltype.GroupDSL].IsZero())
}

func TestFilterByRange(t *testing.T) {
	base := time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)
	var records []FuelSale
	for i := 0; i < 5; i++ {
		records = append(records, saleOn(base.AddDate(0, 0, i), SalesMap{}))
	}

	got := FilterByRange(records, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.Len(t, got, 3)
	assert.Equal(t, base.AddDate(0, 0, 1), got[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 3), got[2].Date)

	// Inclusive on both ends even with timestamps inside the day.
	noon := base.Add(12 * time.Hour)
	got = FilterByRange(records, noon, noon)
	require.Len(t, got, 1)
}

func TestFilterByDate(t *testing.T) {
	d := time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)
	records := []FuelSale{saleOn(d, SalesMap{}), saleOn(d.AddDate(0, 0, 1), SalesMap{})}

	got := FilterByDate(records, d)
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0].Date)
}

func TestParseSalesMap(t *testing.T) {
	d := time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)

	sales, err := ParseSalesMap("ST1", d, map[string]string{
		"NL":  "1204.502",
		"DSL": "0",
	})
	require.NoError(t, err)
	assert.True(t, sales[fueltype.NL].Equal(types.MustLitres("1204.502")))
	assert.True(t, sales.Get(fueltype.DSL).IsZero())
	// Absent fuel type reads as zero.
	assert.True(t, sales.Get(fueltype.SNL).IsZero())

	// Unknown fuel type fails the whole record.
	_, err = ParseSalesMap("ST1", d, map[string]string{"XX": "10"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeMalformedRecord))

	// Unparseable number is never coerced to zero.
	_, err = ParseSalesMap("ST1", d, map[string]string{"NL": "12x.5"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeMalformedRecord))
}
