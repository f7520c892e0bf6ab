// Package waterfall allocates the SPV's final cash pool across the senior,
// mezzanine and equity tranches in strict priority order.
package waterfall

import (
	"SPVWaterfall/internal/calculator"
	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
)

// Allocate distributes the final pool: senior first up to its target, then
// mezzanine up to its target, and equity takes whatever remains.
//
// Inputs are not validated. Allocate is pure and safe for concurrent use.
func Allocate(in model.WaterfallInput) model.WaterfallResult {
	capital := in.Capital

	// Step a: pool available after the market settles, never below zero
	totalInvested := capital.Total()
	finalPool := calculator.FloorZero(totalInvested.Add(in.Outcome.Premiums).Sub(in.Outcome.Losses))

	// Step b: senior, capped by its target and the pool
	seniorTarget := calculator.TargetPayout(capital.Senior, in.Rates.Senior)
	seniorPaid, afterSenior := calculator.Take(finalPool, seniorTarget)

	// Step c: mezzanine, capped by its target and what senior left
	mezzTarget := calculator.TargetPayout(capital.Mezzanine, in.Rates.Mezzanine)
	mezzPaid, afterMezz := calculator.Take(afterSenior, mezzTarget)

	// Step d: equity is the residual claimant
	equityPaid := afterMezz

	res := model.WaterfallResult{
		TotalInvested: totalInvested,
		FinalPool:     finalPool,
		Senior:        payout(model.TrancheSenior, capital.Senior, seniorTarget, seniorPaid),
		Mezzanine:     payout(model.TrancheMezzanine, capital.Mezzanine, mezzTarget, mezzPaid),
		Equity:        payout(model.TrancheEquity, capital.Equity, decimal.Zero, equityPaid),
	}
	res.Class = Classify(res)
	return res
}

func payout(t model.Tranche, principal, target, paid decimal.Decimal) model.TranchePayout {
	return model.TranchePayout{
		Tranche:   t,
		Principal: principal,
		Target:    target,
		Payout:    paid,
		ROIPct:    calculator.ReturnPct(paid, principal),
	}
}
