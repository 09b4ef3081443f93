package shared

import "github.com/shopspring/decimal"

var half = decimal.NewFromFloat(0.5)

// RoundHalfUp rounds d to the nearest integer, with halves rounded toward
// positive infinity (-2.5 becomes -2, 2.5 becomes 3).
func RoundHalfUp(d decimal.Decimal) int {
	return int(d.Add(half).Floor().IntPart())
}

// PercentOf returns round(part / whole * 100), or 0 when whole is not positive.
func PercentOf(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	return RoundHalfUp(part.Div(whole).Mul(decimal.NewFromInt(100)))
}
