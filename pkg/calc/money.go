// Package calc holds the stateless arithmetic behind attendance, performance,
// compensation and payroll. Nothing here touches the database.
package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(f float64) float64 {
	return dec(f).Round(2).InexactFloat64()
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return dec(part).Div(dec(whole)).Mul(hundred).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
