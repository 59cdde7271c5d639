package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStepDecimals(t *testing.T) {
	tests := []struct {
		step string
		want int32
	}{
		{"0.00010000", 4},
		{"0.0001", 4},
		{"0.001", 3},
		{"0.01000000", 2},
		{"1.00000000", 0},
		{"1", 0},
		{"0.00000001", 8},
		{"0.5", 1},
	}

	for _, tt := range tests {
		got, err := StepDecimals(decimal.RequireFromString(tt.step))
		if err != nil {
			t.Errorf("StepDecimals(%s): %v", tt.step, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StepDecimals(%s): expected %d, got %d", tt.step, tt.want, got)
		}
	}
}

func TestStepDecimalsRejectsNonPositive(t *testing.T) {
	for _, step := range []string{"0", "-0.01"} {
		if _, err := StepDecimals(decimal.RequireFromString(step)); !errors.Is(err, ErrInvalidStepSize) {
			t.Errorf("StepDecimals(%s): expected ErrInvalidStepSize, got %v", step, err)
		}
	}
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		raw, step string
		want      string
	}{
		{"0.001", "0.0001", "0.0010"},
		{"0.001", "0.001", "0.001"},
		{"0.00156", "0.0001", "0.0015"},
		{"1.99", "1", "1"},
		{"0.12345678", "0.00000001", "0.12345678"},
	}

	for _, tt := range tests {
		step := decimal.RequireFromString(tt.step)
		qty, err := NormalizeQuantity(decimal.RequireFromString(tt.raw), step)
		if err != nil {
			t.Errorf("NormalizeQuantity(%s, %s): %v", tt.raw, tt.step, err)
			continue
		}
		if got := FormatQuantity(qty, step); got != tt.want {
			t.Errorf("NormalizeQuantity(%s, %s): expected %s, got %s", tt.raw, tt.step, tt.want, got)
		}
	}
}

func TestNormalizeQuantityNeverExceedsRaw(t *testing.T) {
	raw := decimal.RequireFromString("0.0019999")
	step := decimal.RequireFromString("0.001")

	qty, err := NormalizeQuantity(raw, step)
	if err != nil {
		t.Fatal(err)
	}
	if qty.GreaterThan(raw) {
		t.Errorf("Normalized %s exceeds raw %s", qty, raw)
	}
	if !qty.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("Expected 0.001, got %s", qty)
	}
}

func TestNormalizeQuantityBelowStep(t *testing.T) {
	_, err := NormalizeQuantity(decimal.RequireFromString("0.001"), decimal.RequireFromString("0.01"))
	if !errors.Is(err, ErrQuantityBelowStep) {
		t.Errorf("Expected ErrQuantityBelowStep, got %v", err)
	}
}
