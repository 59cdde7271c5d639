package engine

import (
	"context"
	"time"
)

// Clock paces the trading loop. Wait returns early with ctx.Err() when the
// context is cancelled.
type Clock interface {
	Wait(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func RealClock() Clock {
	return realClock{}
}

func (realClock) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
