package model

import "github.com/shopspring/decimal"

// OutcomeClass summarises how deep losses reached into the capital stack.
type OutcomeClass string

const (
	ClassFullRecovery      OutcomeClass = "FULL_RECOVERY"
	ClassEquityLoss        OutcomeClass = "EQUITY_LOSS"
	ClassMezzanineImpaired OutcomeClass = "MEZZANINE_IMPAIRED"
	ClassSeniorImpaired    OutcomeClass = "SENIOR_IMPAIRED"
	ClassWipeout           OutcomeClass = "WIPEOUT"
)

// TranchePayout is one tranche's share of the final pool.
type TranchePayout struct {
	Tranche   Tranche         `json:"tranche"`
	Principal decimal.Decimal `json:"principal"`
	Target    decimal.Decimal `json:"target"` // zero for equity, which is uncapped
	Payout    decimal.Decimal `json:"payout"`
	ROIPct    decimal.Decimal `json:"roi_pct"`
}

// WaterfallResult is the output of one allocation.
type WaterfallResult struct {
	TotalInvested decimal.Decimal `json:"total_invested"`
	FinalPool     decimal.Decimal `json:"final_pool"`
	Senior        TranchePayout   `json:"senior"`
	Mezzanine     TranchePayout   `json:"mezzanine"`
	Equity        TranchePayout   `json:"equity"`
	Class         OutcomeClass    `json:"class"`
}

// Payouts returns the tranche payouts in priority order.
func (r WaterfallResult) Payouts() []TranchePayout {
	return []TranchePayout{r.Senior, r.Mezzanine, r.Equity}
}

// Distributed returns the sum of all tranche payouts.
func (r WaterfallResult) Distributed() decimal.Decimal {
	return r.Senior.Payout.Add(r.Mezzanine.Payout).Add(r.Equity.Payout)
}

// LossLevels marks where a tranche starts and stops absorbing losses.
type LossLevels struct {
	Impairment decimal.Decimal `json:"impairment"` // above this loss the tranche misses its full claim
	Exhaustion decimal.Decimal `json:"exhaustion"` // at or above this loss the tranche receives nothing
}

// AttachmentPoints holds the loss levels for every tranche for a fixed capital
// structure, rate schedule and premium income.
type AttachmentPoints struct {
	Senior    LossLevels `json:"senior"`
	Mezzanine LossLevels `json:"mezzanine"`
	Equity    LossLevels `json:"equity"`
}

// For returns the loss levels of a single tranche.
func (a AttachmentPoints) For(t Tranche) LossLevels {
	switch t {
	case TrancheSenior:
		return a.Senior
	case TrancheMezzanine:
		return a.Mezzanine
	case TrancheEquity:
		return a.Equity
	}
	return LossLevels{}
}

// Equal reports whether two payouts hold the same values.
func (p TranchePayout) Equal(o TranchePayout) bool {
	return p.Tranche == o.Tranche &&
		p.Principal.Equal(o.Principal) &&
		p.Target.Equal(o.Target) &&
		p.Payout.Equal(o.Payout) &&
		p.ROIPct.Equal(o.ROIPct)
}

// Equal reports whether two results hold the same values, regardless of how
// each decimal is scaled internally.
func (r WaterfallResult) Equal(o WaterfallResult) bool {
	return r.Class == o.Class &&
		r.TotalInvested.Equal(o.TotalInvested) &&
		r.FinalPool.Equal(o.FinalPool) &&
		r.Senior.Equal(o.Senior) &&
		r.Mezzanine.Equal(o.Mezzanine) &&
		r.Equity.Equal(o.Equity)
}
