package scenario

import (
	"errors"
	"fmt"

	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/waterfall"

	"github.com/shopspring/decimal"
)

// ErrInvalidSweep is wrapped by every grid error from LossSweep.
var ErrInvalidSweep = errors.New("invalid sweep")

// MaxSweepSteps bounds the size of a sweep grid.
const MaxSweepSteps = 1000

// SweepPoint is one allocation on a sweep grid.
type SweepPoint struct {
	Loss   decimal.Decimal       `json:"loss"`
	Result model.WaterfallResult `json:"result"`
}

// LossSweep allocates once per loss level on an inclusive, evenly spaced grid
// from..to with the given number of points. Every point is an independent
// allocation of the same input with only the loss amount changed.
func LossSweep(in model.WaterfallInput, from, to decimal.Decimal, steps int) ([]SweepPoint, error) {
	if steps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidSweep, steps)
	}
	if steps > MaxSweepSteps {
		return nil, fmt.Errorf("%w: %d steps exceeds maximum of %d", ErrInvalidSweep, steps, MaxSweepSteps)
	}
	for _, bound := range []struct {
		name  string
		value decimal.Decimal
	}{{"from", from}, {"to", to}} {
		if err := waterfall.CheckAmount(bound.name, bound.value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
		}
	}
	if to.LessThan(from) {
		return nil, fmt.Errorf("%w: upper bound %s is below lower bound %s", ErrInvalidSweep, to, from)
	}

	stride := to.Sub(from).Div(decimal.NewFromInt(int64(steps - 1)))
	points := make([]SweepPoint, steps)
	for i := 0; i < steps; i++ {
		loss := from.Add(stride.Mul(decimal.NewFromInt(int64(i))))
		if i == steps-1 {
			loss = to
		}
		points[i] = SweepPoint{Loss: loss, Result: waterfall.Allocate(in.WithLosses(loss))}
	}
	return points, nil
}
