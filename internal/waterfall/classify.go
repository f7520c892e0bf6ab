package waterfall

import "SPVWaterfall/internal/model"

// classRules is checked in order; the first match wins.
var classRules = []struct {
	Class model.OutcomeClass
	Match func(r model.WaterfallResult) bool
}{
	{model.ClassWipeout, func(r model.WaterfallResult) bool { return !r.FinalPool.IsPositive() }},
	{model.ClassSeniorImpaired, func(r model.WaterfallResult) bool { return r.Senior.Payout.LessThan(r.Senior.Target) }},
	{model.ClassMezzanineImpaired, func(r model.WaterfallResult) bool { return r.Mezzanine.Payout.LessThan(r.Mezzanine.Target) }},
	{model.ClassEquityLoss, func(r model.WaterfallResult) bool { return r.Equity.Payout.LessThan(r.Equity.Principal) }},
}

// Classify reports how far losses reached into the capital stack.
func Classify(r model.WaterfallResult) model.OutcomeClass {
	for _, rule := range classRules {
		if rule.Match(r) {
			return rule.Class
		}
	}
	return model.ClassFullRecovery
}
