package types

import (
	"github.com/shopspring/decimal"
)

// Price represents a per-litre fuel price. Same decimal backing as Litres:
// week-average prices feed reports and must not drift through float math.
type Price = decimal.Decimal

// NewPriceFromString creates a Price value from a string.
// This is the preferred method for stored numeric values.
func NewPriceFromString(s string) (Price, error) {
	return decimal.NewFromString(s)
}

// MustPrice creates a Price value from a string, panics on error.
// Use only for constants and tests.
func MustPrice(s string) Price {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
