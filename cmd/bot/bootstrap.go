package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"pred-trading-bot/internal/engine"
	"pred-trading-bot/internal/engine/engineobs"
	"pred-trading-bot/internal/eod"
	"pred-trading-bot/internal/eod/eodobs"
	"pred-trading-bot/internal/exchange/binance"
	"pred-trading-bot/internal/exchange/exchangeobs"
	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/signal"
	"pred-trading-bot/internal/store"
	"pred-trading-bot/internal/trace"
	"pred-trading-bot/internal/tradelog"
	"pred-trading-bot/internal/types"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger, tracer, and EOD summarizer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	eod.SetDefaultSummarizer(eodobs.Wrap(eod.NewSummarizer()))
	return nil
}

func configPath() string {
	if p := os.Getenv("TRADER_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := configPath()
	cfg, err := store.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Info(ctx, "Config loaded",
		"path", path,
		"mode", cfg.Mode,
		"network", cfg.Network,
		"symbol", cfg.Symbol,
		"poll_seconds", cfg.PollSeconds,
	)
	return cfg, nil
}

// compressOldLogs compresses old order journals if retention is configured
func compressOldLogs(ctx context.Context) {
	v := os.Getenv("TRADER_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Ignoring invalid TRADER_LOG_RETENTION_DAYS", "value", v)
		return
	}
	if err := tradelog.CompressOlder(n); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

func initializeExchange(ctx context.Context, cfg *store.Config) interfaces.Exchange {
	gw := binance.NewGateway(binance.Params{
		Mode:      cfg.Mode,
		APIKey:    os.Getenv("BINANCE_API_KEY"),
		APISecret: os.Getenv("BINANCE_API_SECRET"),
		Testnet:   cfg.Testnet(),
		Timeout:   time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	if !cfg.Testnet() {
		logger.Warn(ctx, "Connected to Binance MAINNET")
	}

	return exchangeobs.Wrap(gw)
}

func initializeSignal(cfg *store.Config) interfaces.Signal {
	return signal.NewCSVSource(cfg.Signal.Path, time.Duration(cfg.Signal.TimeoutSeconds)*time.Second)
}

func initializeEngine(cfg *store.Config, exchange interfaces.Exchange, sig interfaces.Signal) interfaces.Engine {
	return engineobs.Wrap(engine.New(cfg, exchange, sig))
}

// eodHook writes the previous UTC day's summary once its journal is closed.
func eodHook(ctx context.Context, _ *types.CycleResult) {
	ok, day := eod.ShouldRunNow(time.Now())
	if !ok {
		return
	}
	if _, err := eod.SummarizeDay(day); err != nil {
		logger.Warn(ctx, "EOD summary failed", "day", day.Format("2006-01-02"), "error", err)
	}
}
