// Package money does rupee arithmetic on shopspring decimals and hands back float64 values
// rounded to two places for storage.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// D converts a stored amount to a decimal.
func D(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// F rounds half away from zero to two places and converts back for storage.
func F(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func Round2(v float64) float64 {
	return F(D(v))
}

func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(D(v))
	}
	return F(total)
}

// Percent returns round2(amount * pct / 100).
func Percent(amount, pct float64) float64 {
	return F(D(amount).Mul(D(pct)).Div(hundred))
}

// ClampZero floors d at zero.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
