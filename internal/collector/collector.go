package collector

import (
	"context"
	"fmt"

	"SPVWaterfall/internal/model"
)

// Collector combines the vehicle's fixed capital structure with the latest
// market outcome into a waterfall input.
type Collector struct {
	Fetcher Fetcher
	Capital model.TrancheCapital
	Rates   model.RateSchedule
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, capital model.TrancheCapital, rates model.RateSchedule) *Collector {
	return &Collector{Fetcher: fetcher, Capital: capital, Rates: rates}
}

// Collect fetches the market outcome and builds the input.
func (c *Collector) Collect(ctx context.Context) (model.WaterfallInput, error) {
	outcome, err := c.Fetcher.FetchOutcome(ctx)
	if err != nil {
		return model.WaterfallInput{}, fmt.Errorf("collect from %s: %w", c.Fetcher.Name(), err)
	}
	return model.WaterfallInput{
		Capital: c.Capital,
		Outcome: outcome,
		Rates:   c.Rates,
	}, nil
}
