package engineobs

import (
	"context"
	"time"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/trace"
	"pred-trading-bot/internal/types"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// observableEngine traces Init and Step. Failures are recorded on the span
// only; the caller decides how to log them.
type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Init(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "engine.Init")
	defer span.End()

	if err := oe.engine.Init(ctx); err != nil {
		markFailed(span, err)
		return err
	}
	logger.InfoSkip(ctx, 1, "Engine initialised")
	return nil
}

func (oe *observableEngine) Step(ctx context.Context) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	start := time.Now()

	result, err := oe.engine.Step(ctx)
	if err != nil {
		markFailed(span, err)
	}
	if result == nil {
		return nil, err
	}

	trace.Annotate(ctx, trace.CycleAttributes(result)...)
	logger.InfoSkip(ctx, 1, "Trading cycle completed",
		"cycle_id", result.CycleID,
		"symbol", result.Symbol,
		"outcome", result.Outcome,
		"orders", len(result.Orders),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, err
}

func markFailed(span oteltrace.Span, err error) {
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
