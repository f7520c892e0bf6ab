package model

import "github.com/shopspring/decimal"

// Default fixed rates for the rated tranches.
var (
	DefaultSeniorRate    = decimal.NewFromFloat(0.05)
	DefaultMezzanineRate = decimal.NewFromFloat(0.12)
)

// MarketOutcome is the net effect of the prediction market on the pool.
type MarketOutcome struct {
	Premiums decimal.Decimal `json:"premiums"`
	Losses   decimal.Decimal `json:"losses"`
}

// RateSchedule holds the fixed fractional rates (0.05 = 5%).
// Equity is the residual claimant and has no rate.
type RateSchedule struct {
	Senior    decimal.Decimal `json:"senior"`
	Mezzanine decimal.Decimal `json:"mezzanine"`
}

// DefaultRateSchedule returns the 5% / 12% schedule.
func DefaultRateSchedule() RateSchedule {
	return RateSchedule{Senior: DefaultSeniorRate, Mezzanine: DefaultMezzanineRate}
}

// WaterfallInput is everything a single allocation needs.
type WaterfallInput struct {
	Capital TrancheCapital `json:"capital"`
	Outcome MarketOutcome  `json:"outcome"`
	Rates   RateSchedule   `json:"rates"`
}

// NewInput builds an input from plain amounts using the default rate schedule.
func NewInput(senior, mezzanine, equity, premiums, losses float64) WaterfallInput {
	return WaterfallInput{
		Capital: TrancheCapital{
			Senior:    decimal.NewFromFloat(senior),
			Mezzanine: decimal.NewFromFloat(mezzanine),
			Equity:    decimal.NewFromFloat(equity),
		},
		Outcome: MarketOutcome{
			Premiums: decimal.NewFromFloat(premiums),
			Losses:   decimal.NewFromFloat(losses),
		},
		Rates: DefaultRateSchedule(),
	}
}

// WithRates returns a copy of the input with the given senior and mezzanine rates.
func (in WaterfallInput) WithRates(senior, mezzanine float64) WaterfallInput {
	in.Rates = RateSchedule{
		Senior:    decimal.NewFromFloat(senior),
		Mezzanine: decimal.NewFromFloat(mezzanine),
	}
	return in
}

// WithLosses returns a copy of the input with a different loss amount.
func (in WaterfallInput) WithLosses(losses decimal.Decimal) WaterfallInput {
	in.Outcome.Losses = losses
	return in
}
