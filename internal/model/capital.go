package model

import "github.com/shopspring/decimal"

// Tranche identifies a class of capital provider in payout priority order.
type Tranche string

const (
	TrancheSenior    Tranche = "SENIOR"
	TrancheMezzanine Tranche = "MEZZANINE"
	TrancheEquity    Tranche = "EQUITY"
)

// Tranches lists every tranche, highest priority first.
var Tranches = []Tranche{TrancheSenior, TrancheMezzanine, TrancheEquity}

// TrancheCapital holds the principal committed by each tranche.
type TrancheCapital struct {
	Senior    decimal.Decimal `json:"senior"`
	Mezzanine decimal.Decimal `json:"mezzanine"`
	Equity    decimal.Decimal `json:"equity"`
}

// Total returns the sum of all principal.
func (c TrancheCapital) Total() decimal.Decimal {
	return c.Senior.Add(c.Mezzanine).Add(c.Equity)
}

// Principal returns the principal of a single tranche.
func (c TrancheCapital) Principal(t Tranche) decimal.Decimal {
	switch t {
	case TrancheSenior:
		return c.Senior
	case TrancheMezzanine:
		return c.Mezzanine
	case TrancheEquity:
		return c.Equity
	}
	return decimal.Zero
}
