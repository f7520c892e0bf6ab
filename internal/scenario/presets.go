// Package scenario holds named waterfall inputs and single-shot sensitivity sweeps.
package scenario

import (
	"errors"
	"fmt"

	"SPVWaterfall/internal/model"
)

// ErrUnknownScenario is returned by Lookup for names not in Presets.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is a named, reproducible waterfall input.
type Scenario struct {
	Name        string
	Description string
	Input       model.WaterfallInput
}

const (
	NameBase       = "base"
	NameNoLoss     = "no-loss"
	NameWipeout    = "wipeout"
	NameZeroEquity = "zero-equity"
)

// Presets returns the predefined scenarios in a stable order.
func Presets() []Scenario {
	return []Scenario{
		{
			Name:        NameBase,
			Description: "700/200/100 stack, 150 premiums collected, 400 paid to market winners",
			Input:       model.NewInput(700, 200, 100, 150, 400),
		},
		{
			Name:        NameNoLoss,
			Description: "700/200/100 stack with no market activity",
			Input:       model.NewInput(700, 200, 100, 0, 0),
		},
		{
			Name:        NameWipeout,
			Description: "losses far beyond capital plus premiums",
			Input:       model.NewInput(700, 200, 100, 150, 5000),
		},
		{
			Name:        NameZeroEquity,
			Description: "no equity cushion, base market outcome",
			Input:       model.NewInput(700, 200, 0, 150, 400),
		},
	}
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Scenario, error) {
	for _, s := range Presets() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}
