package calculator

import "github.com/shopspring/decimal"

// ReturnPct computes ((payout / principal) - 1) * 100.
// A tranche without positive principal reports 0.
func ReturnPct(payout, principal decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() {
		return decimal.Zero
	}
	return payout.Div(principal).Sub(decimal.NewFromInt(1)).Mul(hundred)
}
