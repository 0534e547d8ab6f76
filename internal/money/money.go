// Package money holds the fixed-point arithmetic conventions used by the
// pricing core. All monetary amounts are decimals with two fraction digits,
// matching the NUMERIC(12,2) columns they are read from.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two decimal places, half-up (half away from zero).
// Banker's rounding is deliberately not used; totals must match what a
// customer sees on a currency display.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns round2(amount * pct / 100).
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(pct).Div(hundred))
}

// CapAt returns d, clamped so it never exceeds limit.
func CapAt(d, limit decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(limit) {
		return limit
	}
	return d
}
