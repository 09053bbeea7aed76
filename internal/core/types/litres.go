// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Litres represents a fuel volume with full precision.
// Uses decimal.Decimal to avoid floating-point summation drift across the
// day -> week -> month roll-up chain.
type Litres = decimal.Decimal

// NewLitres creates a Litres value from a float.
// WARNING: Use NewLitresFromString for values read from storage.
func NewLitres(f float64) Litres {
	return decimal.NewFromFloat(f)
}

// NewLitresFromInt creates a Litres value from whole litres.
func NewLitresFromInt(n int64) Litres {
	return decimal.NewFromInt(n)
}

// NewLitresFromString creates a Litres value from a string.
// This is the preferred method for stored numeric values.
func NewLitresFromString(s string) (Litres, error) {
	return decimal.NewFromString(s)
}

// MustLitres creates a Litres value from a string, panics on error.
// Use only for constants and tests.
func MustLitres(s string) Litres {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroLitres returns zero Litres value.
func ZeroLitres() Litres {
	return decimal.Zero
}

// SumLitres adds up values without intermediate rounding.
func SumLitres(vals ...Litres) Litres {
	total := decimal.Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}
