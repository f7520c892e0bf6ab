package calculator

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TargetPayout returns the most a fixed-rate tranche can receive: principal plus its rate.
func TargetPayout(principal, rate decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromInt(1).Add(rate))
}

// FloorZero clamps negative amounts to zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Take pays out of available up to claim and returns the paid amount and what is left.
// Neither value is ever negative.
func Take(available, claim decimal.Decimal) (paid, remaining decimal.Decimal) {
	paid = decimal.Min(available, claim)
	remaining = FloorZero(available.Sub(paid))
	return paid, remaining
}
