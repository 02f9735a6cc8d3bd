package money

import "github.com/shopspring/decimal"

// RoundCents rounds an amount to two decimal places with half-up rounding.
// The engine works in floats; amounts are snapped to cents only at the
// reporting boundary so accumulated totals stay exact.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ToCents converts an amount to integer cents with half-up rounding.
func ToCents(v float64) int64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts integer cents back to a float amount.
func FromCents(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return f
}
