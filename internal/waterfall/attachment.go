package waterfall

import (
	"SPVWaterfall/internal/calculator"
	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
)

// AttachmentPoints returns the loss levels at which each tranche starts missing
// its claim and at which it is wiped out. Equity's claim is its principal.
func AttachmentPoints(capital model.TrancheCapital, rates model.RateSchedule, premiums decimal.Decimal) model.AttachmentPoints {
	cover := capital.Total().Add(premiums)
	seniorTarget := calculator.TargetPayout(capital.Senior, rates.Senior)
	mezzTarget := calculator.TargetPayout(capital.Mezzanine, rates.Mezzanine)

	afterSenior := cover.Sub(seniorTarget)
	afterMezz := afterSenior.Sub(mezzTarget)

	return model.AttachmentPoints{
		Senior:    levels(afterSenior, cover),
		Mezzanine: levels(afterMezz, afterSenior),
		Equity:    levels(afterMezz.Sub(capital.Equity), afterMezz),
	}
}

func levels(impairment, exhaustion decimal.Decimal) model.LossLevels {
	return model.LossLevels{
		Impairment: calculator.FloorZero(impairment),
		Exhaustion: calculator.FloorZero(exhaustion),
	}
}
