// Package money converts between wire amounts and engine floats.
//
// Amounts cross the API as decimal.Decimal so clients never see binary
// float noise; the simulator works in float64. Everything leaving the
// service is rounded half-away-from-zero to cents.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for currency amounts.
const Places = 2

// RatePlaces is the number of fractional digits kept for interest rates.
const RatePlaces = 6

// ErrNotFinite reports a NaN or infinite amount, which decimal cannot hold.
var ErrNotFinite = errors.New("amount is not finite")

// Finite returns ErrNotFinite if any value is NaN or infinite.
func Finite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrNotFinite, v)
		}
	}
	return nil
}

// Round converts an engine amount to a cents-precision decimal.
// f must be finite; check with Finite first when it may not be.
func Round(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(Places)
}

// RoundFloat rounds f to cents and returns it as a float.
func RoundFloat(f float64) float64 {
	return Round(f).InexactFloat64()
}

// Rate converts an engine interest rate to a decimal with RatePlaces digits.
func Rate(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(RatePlaces)
}

// Float converts a wire amount to the engine representation.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Parse reads an amount written as text, e.g. "1200.50".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
