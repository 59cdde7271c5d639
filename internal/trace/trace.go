package trace

import (
	"context"
	"os"
	"strconv"

	"pred-trading-bot/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pred-trading-bot"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
)

// Settings controls the tracer provider.
type Settings struct {
	Enabled bool
	// SampleRatio is the fraction of root spans kept, in [0, 1].
	SampleRatio float64
	Pretty      bool
}

// SettingsFromEnv reads LOG_TRACING_ENABLED (default true),
// LOG_TRACING_SAMPLE_RATIO (default 1) and LOG_TRACING_PRETTY (default false).
func SettingsFromEnv() Settings {
	s := Settings{
		Enabled:     os.Getenv("LOG_TRACING_ENABLED") != "false",
		SampleRatio: 1,
		Pretty:      os.Getenv("LOG_TRACING_PRETTY") == "true",
	}
	if v, err := strconv.ParseFloat(os.Getenv("LOG_TRACING_SAMPLE_RATIO"), 64); err == nil && v >= 0 && v <= 1 {
		s.SampleRatio = v
	}
	return s
}

// Init installs a tracer provider built from the environment.
func Init() error {
	return InitWithSettings(SettingsFromEnv())
}

func InitWithSettings(s Settings) error {
	enabled = false
	if !s.Enabled {
		return nil
	}

	var opts []stdouttrace.Option
	if s.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRatio))),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = tracerProvider.Tracer(serviceName)
	enabled = true
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	enabled = false
	return err
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	return enabled
}

// GetTraceFields returns the ids of the span in ctx for log correlation.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

// Annotate sets attributes on the span in ctx, if it is recording.
func Annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// CycleAttributes describes a finished trading cycle.
func CycleAttributes(res *types.CycleResult) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("cycle.id", res.CycleID),
		attribute.String("cycle.symbol", res.Symbol),
		attribute.String("cycle.outcome", string(res.Outcome)),
		attribute.Int("cycle.orders", len(res.Orders)),
	}
	if res.Side != "" {
		attrs = append(attrs, attribute.String("cycle.side", string(res.Side)))
	}
	if res.Prediction.Valid {
		attrs = append(attrs, attribute.String("cycle.prediction", res.Prediction.Decimal.String()))
	}
	if res.Price.Valid {
		attrs = append(attrs, attribute.String("cycle.price", res.Price.Decimal.String()))
	}
	return attrs
}

// OrderAttributes describes an order accepted by the exchange.
func OrderAttributes(r types.OrderReceipt) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("order.id", r.OrderID),
		attribute.String("order.client_id", r.ClientOrderID),
		attribute.String("order.type", string(r.Type)),
		attribute.String("order.side", string(r.Side)),
		attribute.String("order.status", r.Status),
		attribute.String("order.quantity", r.Quantity.String()),
	}
	if r.Type == types.OrderTypeStopLossLimit {
		attrs = append(attrs,
			attribute.String("order.price", r.Price.String()),
			attribute.String("order.stop_price", r.StopPrice.String()),
		)
	}
	return attrs
}
