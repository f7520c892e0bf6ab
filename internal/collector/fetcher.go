package collector

import (
	"context"

	"SPVWaterfall/internal/model"
)

// Fetcher defines the interface for fetching the market's settled outcome.
type Fetcher interface {
	FetchOutcome(ctx context.Context) (model.MarketOutcome, error)
	Name() string
}
