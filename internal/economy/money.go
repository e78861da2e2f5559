package economy

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// maxUnits bounds a single purchase so float quotients convert to int64 exactly.
const maxUnits = int64(1) << 53

// compound applies one day of interest and rounds to whole dollars.
func compound(debt, rate float64) float64 {
	return decimal.NewFromFloat(debt).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		InexactFloat64()
}

// yieldOn returns the whole-dollar yield earned on cash.
func yieldOn(cash, rate float64) float64 {
	if cash <= 0 || rate <= 0 {
		return 0
	}
	return decimal.NewFromFloat(cash).
		Mul(decimal.NewFromFloat(rate)).
		Floor().
		InexactFloat64()
}

// affordable returns floor(cash / price), bounded to maxUnits.
func affordable(cash, price float64) int64 {
	if cash <= 0 || price <= 0 {
		return 0
	}
	q := math.Floor(cash / price)
	if q >= float64(maxUnits) {
		return maxUnits
	}
	return int64(q)
}

// FormatUnits renders a unit count with thousands separators.
func FormatUnits(n int64) string {
	return humanize.Comma(n)
}

// FormatMoney renders a dollar amount with thousands separators and cents.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

// FormatPrice renders a unit price; sub-dollar prices keep six decimals.
func FormatPrice(p float64) string {
	if p > 1 {
		return FormatMoney(p)
	}
	return "$" + strconv.FormatFloat(p, 'f', 6, 64)
}
