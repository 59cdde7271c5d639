package logger

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, detailed bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)

	prevDetailed := detailedLogging
	restore := Replace(zap.New(core))
	detailedLogging = detailed
	t.Cleanup(func() {
		restore()
		detailedLogging = prevDetailed
	})
	return logs
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"INFO":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_DETAILED", "true")

	cfg := LoadConfigFromEnv()
	if cfg.Level != "WARN" || cfg.Format != "console" || !cfg.DetailedLogging {
		t.Errorf("Unexpected config %+v", cfg)
	}
}

func TestDebugSuppressedUnlessDetailed(t *testing.T) {
	logs := observe(t, false)
	Debug(context.Background(), "hidden")
	Info(context.Background(), "shown")

	if logs.Len() != 1 || logs.All()[0].Message != "shown" {
		t.Errorf("Expected only the info entry, got %v", logs.All())
	}
}

func TestErrorWithErrAddsErrorField(t *testing.T) {
	logs := observe(t, false)
	ErrorWithErr(context.Background(), "failed", errors.New("boom"), "symbol", "BTCUSDT")

	entries := logs.FilterMessage("failed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["error"] != "boom" {
		t.Errorf("Expected error field boom, got %v", fields["error"])
	}
	if fields["symbol"] != "BTCUSDT" {
		t.Errorf("Expected symbol field, got %v", fields["symbol"])
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("Expected error level, got %s", entries[0].Level)
	}
}

func TestEventHelpers(t *testing.T) {
	logs := observe(t, false)
	ctx := context.Background()

	Decision(ctx, "BTCUSDT", "BUY", "50500", "50000", "cycle_id", "c1")
	Trade(ctx, "BTCUSDT", "SELL", "STOP_LOSS_LIMIT", "0.001", "42")
	Risk(ctx, "BTCUSDT", "POSITION_UNPROTECTED")

	all := logs.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	for i, want := range []string{"DECISION", "TRADE", "RISK"} {
		if got := all[i].ContextMap()["type"]; got != want {
			t.Errorf("entry %d: expected type %s, got %v", i, want, got)
		}
	}
	if all[0].ContextMap()["cycle_id"] != "c1" {
		t.Errorf("Expected extra fields to be kept, got %v", all[0].ContextMap())
	}
	if all[2].Level != zapcore.ErrorLevel {
		t.Errorf("Expected risk events at error level, got %s", all[2].Level)
	}
}

func TestOperationTimer(t *testing.T) {
	logs := observe(t, true)

	op := StartOperation(context.Background(), "signal.Latest", "path", "pred.csv")
	op.EndWithError(errors.New("no rows"))

	if logs.FilterMessage("Operation started").Len() != 1 {
		t.Error("Expected a start entry in detailed mode")
	}
	failed := logs.FilterMessage("Operation failed").FilterLevelExact(zapcore.WarnLevel).All()
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failure entry, got %d", len(failed))
	}
	fields := failed[0].ContextMap()
	if _, ok := fields["duration_ms"]; !ok {
		t.Error("Expected duration_ms on the failure entry")
	}
	if fields["path"] != "pred.csv" || fields["error"] != "no rows" {
		t.Errorf("Expected start fields and error, got %v", fields)
	}
}
