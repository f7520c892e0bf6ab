package waterfall

import (
	"errors"
	"fmt"

	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput is wrapped by every error returned from Validate.
	ErrInvalidInput = errors.New("invalid waterfall input")
	// ErrOutOfRange is wrapped by every error returned from CheckRange and CheckAmount.
	ErrOutOfRange = errors.New("amount out of range")
)

// Limits on any single amount or rate. Amounts outside them would make decimal
// arithmetic allocate arbitrarily large integers.
const (
	MaxExponent = 18
	MaxDigits   = 30
)

// MaxAmount bounds the magnitude of any amount or rate.
var MaxAmount = decimal.New(1, 15)

type namedAmount struct {
	name  string
	value decimal.Decimal
}

func inputFields(in model.WaterfallInput) []namedAmount {
	return []namedAmount{
		{"capital.senior", in.Capital.Senior},
		{"capital.mezzanine", in.Capital.Mezzanine},
		{"capital.equity", in.Capital.Equity},
		{"outcome.premiums", in.Outcome.Premiums},
		{"outcome.losses", in.Outcome.Losses},
		{"rates.senior", in.Rates.Senior},
		{"rates.mezzanine", in.Rates.Mezzanine},
	}
}

// Validate rejects negative amounts and rates. Allocate itself accepts them;
// callers that take input from outside should run Validate first.
func Validate(in model.WaterfallInput) error {
	var errs []error
	for _, f := range inputFields(in) {
		if f.value.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: %s must be nonnegative, got %s", ErrInvalidInput, f.name, f.value))
		}
	}
	return errors.Join(errs...)
}

// CheckRange rejects amounts too large or too precise to allocate. Unlike
// Validate it is not a policy choice and applies to every outside input.
func CheckRange(in model.WaterfallInput) error {
	var errs []error
	for _, f := range inputFields(in) {
		if err := CheckAmount(f.name, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckAmount reports whether v is within the allocator's limits. The exponent
// and digit count are checked before any comparison, since comparing rescales.
func CheckAmount(name string, v decimal.Decimal) error {
	exp := v.Exponent()
	if exp > MaxExponent || exp < -MaxExponent || v.NumDigits() > MaxDigits {
		return fmt.Errorf("%w: %s exceeds %d digits or scale 1e±%d", ErrOutOfRange, name, MaxDigits, MaxExponent)
	}
	if v.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s magnitude exceeds %s", ErrOutOfRange, name, MaxAmount)
	}
	return nil
}
