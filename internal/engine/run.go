package engine

import (
	"context"
	"time"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/metrics"
	"pred-trading-bot/internal/types"
)

// CycleHook is called after every cycle with its result, which may be nil
// when the cycle failed before producing one.
type CycleHook func(ctx context.Context, res *types.CycleResult)

// Run drives eng until ctx is cancelled. Recoverable cycle errors are logged
// and the loop waits for the next cycle; only fatal errors are returned.
func Run(ctx context.Context, eng interfaces.Engine, clock Clock, interval time.Duration, hooks ...CycleHook) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := eng.Step(ctx)
		if err != nil {
			if IsFatal(err) {
				return err
			}
			logger.Warn(ctx, "Cycle ended without action", "kind", KindOf(err).String(), "error", err)
		}
		if res != nil {
			metrics.CyclesTotal.WithLabelValues(string(res.Outcome)).Inc()
			if res.Prediction.Valid {
				metrics.LastPrediction.Set(res.Prediction.Decimal.InexactFloat64())
			}
			if res.Price.Valid {
				metrics.LastPrice.Set(res.Price.Decimal.InexactFloat64())
			}
		}
		for _, hook := range hooks {
			hook(ctx, res)
		}

		logger.Info(ctx, "Waiting for the next cycle", "interval", interval.String())
		if err := clock.Wait(ctx, interval); err != nil {
			logger.Info(ctx, "Trading loop stopped", "reason", err.Error())
			return nil
		}
	}
}
