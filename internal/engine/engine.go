package engine

import (
	"context"
	"time"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/metrics"
	"pred-trading-bot/internal/store"
	"pred-trading-bot/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cycleState is carried from one cycle to the next.
type cycleState struct {
	lastPrediction *decimal.Decimal
}

type Engine struct {
	symbol        string
	baseQty       decimal.Decimal
	stopLossPct   decimal.Decimal
	limitPct      decimal.Decimal
	priceDecimals int32

	exchange interfaces.Exchange
	signal   interfaces.Signal
	exec     *orderExecutor
	book     *positionManager

	info  *types.SymbolInfo
	state cycleState
	now   func() time.Time
}

func newEngine(cfg *store.Config, exchange interfaces.Exchange, signal interfaces.Signal) *Engine {
	return &Engine{
		symbol:        cfg.Symbol,
		baseQty:       cfg.BaseQty,
		stopLossPct:   decimal.NewFromFloat(cfg.Stop.LossPct),
		limitPct:      decimal.NewFromFloat(cfg.Stop.LimitPct),
		priceDecimals: cfg.PricePlaces(),
		exchange:      exchange,
		signal:        signal,
		exec:          newOrderExecutor(exchange, cfg.Symbol),
		book:          newPositionManager(),
		now:           time.Now,
	}
}

// Init loads the symbol metadata once. Without it no order can be sized, so
// every failure is reported as KindConfigFetch.
func (e *Engine) Init(ctx context.Context) error {
	info, err := e.exchange.SymbolInfo(ctx, e.symbol)
	if err != nil {
		return newCycleError(KindConfigFetch, "exchange.SymbolInfo", err)
	}

	qty, err := NormalizeQuantity(e.baseQty, info.StepSize)
	if err != nil {
		return newCycleError(KindConfigFetch, "normalize quantity "+e.baseQty.String(), err)
	}

	e.info = &info
	logger.Info(ctx, "Symbol info loaded",
		"symbol", e.symbol,
		"step_size", info.StepSize.String(),
		"tick_size", info.TickSize.String(),
		"order_qty", FormatQuantity(qty, info.StepSize),
	)
	return nil
}

// Step runs one cycle: read the signal, skip if unchanged, otherwise compare
// it with the current price and trade in its direction.
func (e *Engine) Step(ctx context.Context) (*types.CycleResult, error) {
	if e.info == nil {
		return nil, ErrNotInitialized
	}

	res := &types.CycleResult{
		CycleID: uuid.NewString(),
		Symbol:  e.symbol,
		Time:    e.now().UTC(),
	}
	logger.Info(ctx, "Starting new trading cycle", "cycle_id", res.CycleID, "symbol", e.symbol)

	pred, err := e.signal.Latest(ctx)
	if err != nil {
		res.Outcome = types.OutcomeNoSignal
		return res, newCycleError(KindSignalRead, "signal.Latest", err)
	}
	res.Prediction = decimal.NullDecimal{Decimal: pred, Valid: true}
	logger.Info(ctx, "Latest prediction", "cycle_id", res.CycleID, "prediction", pred.String())

	if last := e.state.lastPrediction; last != nil && pred.Equal(*last) {
		logger.Info(ctx, "No new prediction or prediction unchanged. Skipping this cycle.",
			"cycle_id", res.CycleID,
			"prediction", pred.String(),
		)
		res.Outcome = types.OutcomeUnchanged
		return res, nil
	}
	e.state.lastPrediction = &pred

	price, err := e.exchange.CurrentPrice(ctx, e.symbol)
	if err != nil {
		res.Outcome = types.OutcomePriceUnavailable
		return res, newCycleError(KindPriceFetch, "exchange.CurrentPrice", err)
	}
	res.Price = decimal.NullDecimal{Decimal: price, Valid: true}
	logger.Info(ctx, "Current price", "cycle_id", res.CycleID, "price", price.String())

	var side types.Side
	switch pred.Cmp(price) {
	case 1:
		side = types.SideBuy
	case -1:
		side = types.SideSell
	default:
		e.exec.logDecision(ctx, res.CycleID, "HOLD", pred, price)
		res.Outcome = types.OutcomeNoAction
		return res, nil
	}
	e.exec.logDecision(ctx, res.CycleID, string(side), pred, price)
	res.Side = side

	return e.trade(ctx, res, side, price)
}

// trade places the market order and, only if it was accepted, the SELL
// stop-loss-limit that protects it.
func (e *Engine) trade(ctx context.Context, res *types.CycleResult, side types.Side, price decimal.Decimal) (*types.CycleResult, error) {
	qty, err := NormalizeQuantity(e.baseQty, e.info.StepSize)
	if err != nil {
		res.Outcome = types.OutcomeOrderFailed
		return res, newCycleError(KindOrderPlacement, "normalize quantity", err)
	}
	res.Quantity = decimal.NullDecimal{Decimal: qty, Valid: true}

	stop, limit := ComputeStopAndLimit(price, e.stopLossPct, e.limitPct)
	stopPrice := RoundPrice(stop, e.priceDecimals)
	limitPrice := RoundPrice(limit, e.priceDecimals)
	logger.Info(ctx, "Calculated stop price and limit price",
		"cycle_id", res.CycleID,
		"side", side,
		"qty", FormatQuantity(qty, e.info.StepSize),
		"stop_price", stop.String(),
		"limit_price", limit.String(),
	)

	entry, err := e.exec.placeEntry(ctx, res.CycleID, side, qty, price)
	if err != nil {
		res.Outcome = types.OutcomeOrderFailed
		return res, newCycleError(KindOrderPlacement, "exchange.PlaceMarketOrder", err)
	}
	res.Orders = append(res.Orders, entry)
	pos := e.book.addEntry(ctx, entry, res.Time)
	metrics.NetPosition.WithLabelValues(e.symbol).Set(pos.net.InexactFloat64())

	// The position is open now. Shutdown must not cancel the protective order.
	protectCtx := context.WithoutCancel(ctx)
	protection, err := e.exec.placeProtection(protectCtx, res.CycleID, qty, limitPrice, stopPrice, price)
	if err != nil {
		logger.Risk(ctx, e.symbol, "POSITION_UNPROTECTED",
			"cycle_id", res.CycleID,
			"entry_order_id", entry.OrderID,
			"side", side,
			"qty", qty.String(),
			"error", err,
		)
		e.book.attachStop(e.symbol, "")
		res.Outcome = types.OutcomeUnprotected
		return res, newCycleError(KindOrderPlacement, "exchange.PlaceStopLossLimitOrder", err)
	}
	res.Orders = append(res.Orders, protection)
	e.book.attachStop(e.symbol, protection.OrderID)
	res.Outcome = types.OutcomeProtected
	return res, nil
}
