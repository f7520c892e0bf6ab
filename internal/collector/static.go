package collector

import (
	"context"

	"SPVWaterfall/internal/model"
)

// StaticFetcher returns a fixed outcome, typically taken from config.
type StaticFetcher struct {
	Outcome model.MarketOutcome
}

func NewStaticFetcher(outcome model.MarketOutcome) *StaticFetcher {
	return &StaticFetcher{Outcome: outcome}
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchOutcome(_ context.Context) (model.MarketOutcome, error) {
	return f.Outcome, nil
}
