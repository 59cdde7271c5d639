package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"pred-trading-bot/internal/engine"
	"pred-trading-bot/internal/eod"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/metrics"
	"pred-trading-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Bot stopped with error", err)
		shutdown()
		os.Exit(1)
	}
	shutdown()
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	compressOldLogs(ctx)

	exchange := initializeExchange(ctx, cfg)
	sig := initializeSignal(cfg)
	eng := initializeEngine(cfg, exchange, sig)

	if err := eng.Init(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		srv, err := metrics.Serve(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		defer srv.Close()
		logger.Info(ctx, "Metrics endpoint listening", "addr", srv.Addr)
	}

	logger.Info(ctx, "Bot started", "symbol", cfg.Symbol, "signal", cfg.Signal.Path)
	interval := time.Duration(cfg.PollSeconds) * time.Second
	return engine.Run(ctx, eng, engine.RealClock(), interval, eodHook)
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info(ctx, "Shutting down...")
	if p, err := eod.SummarizeDay(time.Now()); err == nil && p != "" {
		logger.Info(ctx, "EOD CSV written", "path", p)
	}
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown tracer: %v\n", err)
	}
}
