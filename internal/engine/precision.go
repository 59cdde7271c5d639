package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStepSize   = errors.New("step size must be positive")
	ErrQuantityBelowStep = errors.New("quantity rounds below the minimum step")
)

// maxStepDecimals bounds the digit search; exchange filters never go past 8.
const maxStepDecimals = 18

// StepDecimals returns the number of significant fractional digits of step,
// so "0.00010000" yields 4 and "1.00000000" yields 0.
func StepDecimals(step decimal.Decimal) (int32, error) {
	if !step.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidStepSize, step)
	}
	for k := int32(0); k <= maxStepDecimals; k++ {
		if step.Shift(k).IsInteger() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidStepSize, step, maxStepDecimals)
}

// NormalizeQuantity rounds raw down to the decimal precision implied by step.
func NormalizeQuantity(raw, step decimal.Decimal) (decimal.Decimal, error) {
	k, err := StepDecimals(step)
	if err != nil {
		return decimal.Zero, err
	}
	qty := raw.RoundFloor(k)
	if qty.LessThan(step) {
		return decimal.Zero, fmt.Errorf("%w: %s < %s", ErrQuantityBelowStep, qty, step)
	}
	return qty, nil
}

// FormatQuantity renders qty with exactly as many decimals as step.
func FormatQuantity(qty, step decimal.Decimal) string {
	k, err := StepDecimals(step)
	if err != nil {
		return qty.String()
	}
	return qty.StringFixed(k)
}
