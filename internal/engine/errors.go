package engine

import (
	"errors"
	"fmt"
)

// ErrorKind tells the loop whether a failure ends the process or only the
// current cycle.
type ErrorKind int

const (
	// KindConfigFetch: symbol metadata unavailable at startup. Fatal.
	KindConfigFetch ErrorKind = iota + 1
	KindSignalRead
	KindPriceFetch
	KindOrderPlacement
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigFetch:
		return "CONFIG_FETCH"
	case KindSignalRead:
		return "SIGNAL_READ"
	case KindPriceFetch:
		return "PRICE_FETCH"
	case KindOrderPlacement:
		return "ORDER_PLACEMENT"
	default:
		return "UNKNOWN"
	}
}

type CycleError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

func newCycleError(kind ErrorKind, op string, err error) *CycleError {
	return &CycleError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of a CycleError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// IsFatal reports whether err must stop the trading loop.
func IsFatal(err error) bool {
	return KindOf(err) == KindConfigFetch || errors.Is(err, ErrNotInitialized)
}

var ErrNotInitialized = errors.New("engine: symbol info not loaded, call Init first")
