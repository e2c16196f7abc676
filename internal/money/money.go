// Package money provides decimal helpers for monetary aggregation.
//
// All monetary values in the system are shopspring decimals. Rounding is
// half-up to two places and is applied once per aggregate, never per
// transaction, so repeated sums cannot drift.
package money

import "github.com/shopspring/decimal"

// Round2 rounds d to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Sum adds all values without intermediate rounding.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FloorZero clamps negative values to zero. Savings are never negative.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
