package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("cycle: %w", newCycleError(KindPriceFetch, "exchange.CurrentPrice", base))

	if KindOf(err) != KindPriceFetch {
		t.Errorf("Expected PRICE_FETCH, got %s", KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Error("Expected CycleError to unwrap to its cause")
	}
	if KindOf(base) != 0 {
		t.Errorf("Expected no kind for plain error, got %s", KindOf(base))
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{KindConfigFetch, true},
		{KindSignalRead, false},
		{KindPriceFetch, false},
		{KindOrderPlacement, false},
	}
	for _, tt := range tests {
		err := newCycleError(tt.kind, "op", errors.New("x"))
		if got := IsFatal(err); got != tt.want {
			t.Errorf("IsFatal(%s): expected %v, got %v", tt.kind, tt.want, got)
		}
	}
}
