package waterfall

import (
	"testing"

	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "%s: want %v, got %s", msg, want, got)
}

func TestAllocate_BaseConfiguration(t *testing.T) {
	res := Allocate(model.NewInput(700, 200, 100, 150, 400))

	assertDecimal(t, 1000, res.TotalInvested, "total invested")
	assertDecimal(t, 750, res.FinalPool, "final pool")
	assertDecimal(t, 735, res.Senior.Payout, "senior payout")
	assertDecimal(t, 15, res.Mezzanine.Payout, "mezzanine payout")
	assertDecimal(t, 0, res.Equity.Payout, "equity payout")
	assertDecimal(t, 5, res.Senior.ROIPct, "senior roi")
	assertDecimal(t, -92.5, res.Mezzanine.ROIPct, "mezzanine roi")
	assertDecimal(t, -100, res.Equity.ROIPct, "equity roi")
	assert.Equal(t, model.ClassMezzanineImpaired, res.Class)
}

func TestAllocate_SeniorCappedByPool(t *testing.T) {
	res := Allocate(model.NewInput(700, 200, 100, 150, 500))

	assertDecimal(t, 650, res.FinalPool, "final pool")
	assertDecimal(t, 650, res.Senior.Payout, "senior payout")
	assertDecimal(t, 0, res.Mezzanine.Payout, "mezzanine payout")
	assertDecimal(t, 0, res.Equity.Payout, "equity payout")
	assert.True(t, res.Senior.ROIPct.Round(2).Equal(d(-7.14)), "senior roi %s", res.Senior.ROIPct)
	assertDecimal(t, -100, res.Mezzanine.ROIPct, "mezzanine roi")
	assertDecimal(t, -100, res.Equity.ROIPct, "equity roi")
	assert.Equal(t, model.ClassSeniorImpaired, res.Class)
}

func TestAllocate_NoLosses(t *testing.T) {
	res := Allocate(model.NewInput(700, 200, 100, 0, 0))

	assertDecimal(t, 1000, res.FinalPool, "final pool")
	assertDecimal(t, 735, res.Senior.Payout, "senior payout")
	assertDecimal(t, 224, res.Mezzanine.Payout, "mezzanine payout")
	assertDecimal(t, 41, res.Equity.Payout, "equity payout")
	assertDecimal(t, 5, res.Senior.ROIPct, "senior roi")
	assertDecimal(t, 12, res.Mezzanine.ROIPct, "mezzanine roi")
	assertDecimal(t, -59, res.Equity.ROIPct, "equity roi")
	assert.Equal(t, model.ClassEquityLoss, res.Class)
}

func TestAllocate_TotalWipeout(t *testing.T) {
	res := Allocate(model.NewInput(700, 200, 100, 150, 1_000_000))

	assertDecimal(t, 0, res.FinalPool, "final pool")
	for _, p := range res.Payouts() {
		assertDecimal(t, 0, p.Payout, string(p.Tranche)+" payout")
		assertDecimal(t, -100, p.ROIPct, string(p.Tranche)+" roi")
	}
	assert.Equal(t, model.ClassWipeout, res.Class)
}

func TestAllocate_WipeoutWithZeroPrincipalTranche(t *testing.T) {
	res := Allocate(model.NewInput(700, 0, 100, 0, 5000))

	assertDecimal(t, -100, res.Senior.ROIPct, "senior roi")
	assertDecimal(t, 0, res.Mezzanine.ROIPct, "mezzanine roi")
	assertDecimal(t, -100, res.Equity.ROIPct, "equity roi")
}

func TestAllocate_ZeroEquityPrincipal(t *testing.T) {
	for _, loss := range []float64{0, 100, 400, 2000} {
		res := Allocate(model.NewInput(700, 200, 0, 150, loss))
		assertDecimal(t, 0, res.Equity.ROIPct, "equity roi")
	}

	// Equity still sweeps any surplus; only its ROI is pinned to zero.
	res := Allocate(model.NewInput(700, 200, 0, 200, 0))
	assertDecimal(t, 141, res.Equity.Payout, "equity payout")
	assertDecimal(t, 0, res.Equity.ROIPct, "equity roi")
}

func TestAllocate_ZeroEquityPrincipalWithLosses(t *testing.T) {
	res := Allocate(model.NewInput(700, 200, 0, 150, 400))

	assertDecimal(t, 650, res.FinalPool, "final pool")
	assertDecimal(t, 650, res.Senior.Payout, "senior payout")
	assertDecimal(t, 0, res.Equity.Payout, "equity payout")
	assertDecimal(t, 0, res.Equity.ROIPct, "equity roi")
}

func TestAllocate_CustomRates(t *testing.T) {
	in := model.NewInput(700, 200, 100, 0, 0).WithRates(0.10, 0.20)
	res := Allocate(in)

	assertDecimal(t, 770, res.Senior.Payout, "senior payout")
	assertDecimal(t, 230, res.Mezzanine.Payout, "mezzanine payout")
	assertDecimal(t, 0, res.Equity.Payout, "equity payout")
}

func TestAllocate_Idempotent(t *testing.T) {
	in := model.NewInput(700, 200, 100, 150, 400)
	first := Allocate(in)
	for i := 0; i < 10; i++ {
		require.True(t, first.Equal(Allocate(in)))
	}
}

func TestAllocate_NegativeInputsAreNotRejected(t *testing.T) {
	res := Allocate(model.NewInput(-100, 200, 100, 0, 0))

	assertDecimal(t, 200, res.FinalPool, "final pool")
	assertDecimal(t, 0, res.Senior.ROIPct, "senior roi")
}

// inputGrid yields a deterministic spread of nonnegative inputs.
func inputGrid() []model.WaterfallInput {
	principals := []float64{0, 50, 100, 700}
	flows := []float64{0, 37.5, 150, 999.99, 4000}
	rates := []float64{0, 0.05, 0.12, 1.5}

	var out []model.WaterfallInput
	for _, sr := range principals {
		for _, mz := range principals {
			for _, eq := range principals {
				for _, prem := range flows {
					for _, loss := range flows {
						for _, rate := range rates {
							out = append(out, model.NewInput(sr, mz, eq, prem, loss).WithRates(rate, rate*2))
						}
					}
				}
			}
		}
	}
	return out
}

func TestAllocate_Properties(t *testing.T) {
	for _, in := range inputGrid() {
		res := Allocate(in)

		require.Truef(t, res.Distributed().Equal(res.FinalPool),
			"payouts %s != pool %s for %+v", res.Distributed(), res.FinalPool, in)

		for _, p := range res.Payouts() {
			require.Falsef(t, p.Payout.IsNegative(), "%s payout negative for %+v", p.Tranche, in)
		}
		require.True(t, res.Senior.Payout.LessThanOrEqual(res.Senior.Target))
		require.True(t, res.Mezzanine.Payout.LessThanOrEqual(res.Mezzanine.Target))

		if res.FinalPool.LessThan(res.Senior.Target) {
			require.True(t, res.Mezzanine.Payout.IsZero(), "mezzanine paid before senior is whole: %+v", in)
			require.True(t, res.Equity.Payout.IsZero(), "equity paid before senior is whole: %+v", in)
		}

		for _, p := range res.Payouts() {
			if p.Principal.IsZero() {
				require.True(t, p.ROIPct.IsZero(), "zero-principal %s roi = %s", p.Tranche, p.ROIPct)
			}
		}
	}
}

func TestAllocate_MonotoneInLossesAndPremiums(t *testing.T) {
	base := model.NewInput(700, 200, 100, 150, 0)
	steps := []float64{0, 50, 91, 191, 250, 415, 800, 1150, 1500}

	prev := Allocate(base)
	for _, loss := range steps[1:] {
		cur := Allocate(base.WithLosses(d(loss)))
		for i, p := range cur.Payouts() {
			require.Truef(t, p.Payout.LessThanOrEqual(prev.Payouts()[i].Payout),
				"%s payout rose when loss increased to %v", p.Tranche, loss)
		}
		prev = cur
	}

	in := model.NewInput(700, 200, 100, 0, 900)
	prev = Allocate(in)
	for _, prem := range steps[1:] {
		in.Outcome.Premiums = d(prem)
		cur := Allocate(in)
		for i, p := range cur.Payouts() {
			require.Truef(t, p.Payout.GreaterThanOrEqual(prev.Payouts()[i].Payout),
				"%s payout fell when premiums increased to %v", p.Tranche, prem)
		}
		prev = cur
	}
}
