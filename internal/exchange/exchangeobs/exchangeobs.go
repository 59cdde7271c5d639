package exchangeobs

import (
	"context"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/metrics"
	"pred-trading-bot/internal/trace"
	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

// observableExchange wraps an Exchange with logging, tracing and metrics
type observableExchange struct {
	exchange interfaces.Exchange
}

var _ interfaces.Exchange = (*observableExchange)(nil)

// Wrap wraps an exchange gateway with observability middleware
func Wrap(exchange interfaces.Exchange) interfaces.Exchange {
	return &observableExchange{
		exchange: exchange,
	}
}

func (oe *observableExchange) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.SymbolInfo")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching symbol info", "symbol", symbol)

	info, err := oe.exchange.SymbolInfo(ctx, symbol)
	metrics.ExchangeCallsTotal.WithLabelValues("symbol_info", metrics.Result(err)).Inc()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch symbol info", err, "symbol", symbol)
		return types.SymbolInfo{}, err
	}

	logger.DebugSkip(ctx, 1, "Symbol info fetched",
		"symbol", symbol,
		"step_size", info.StepSize.String(),
		"tick_size", info.TickSize.String(),
	)
	return info, nil
}

func (oe *observableExchange) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.CurrentPrice")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching current price", "symbol", symbol)

	price, err := oe.exchange.CurrentPrice(ctx, symbol)
	metrics.ExchangeCallsTotal.WithLabelValues("current_price", metrics.Result(err)).Inc()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch current price", err, "symbol", symbol)
		return decimal.Zero, err
	}

	logger.DebugSkip(ctx, 1, "Current price fetched", "symbol", symbol, "price", price.String())
	return price, nil
}

func (oe *observableExchange) PlaceMarketOrder(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (types.OrderReceipt, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.PlaceMarketOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing market order",
		"symbol", symbol,
		"side", side,
		"qty", qty.String(),
	)

	resp, err := oe.exchange.PlaceMarketOrder(ctx, symbol, side, qty)
	oe.countOrder(types.OrderTypeMarket, side, err)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place market order", err,
			"symbol", symbol,
			"side", side,
			"qty", qty.String(),
		)
		return types.OrderReceipt{}, err
	}

	trace.Annotate(ctx, trace.OrderAttributes(resp)...)
	logger.InfoSkip(ctx, 1, "Market order placed",
		"symbol", symbol,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}

func (oe *observableExchange) PlaceStopLossLimitOrder(ctx context.Context, symbol string, side types.Side, qty, price, stopPrice decimal.Decimal, tif types.TimeInForce) (types.OrderReceipt, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.PlaceStopLossLimitOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing stop-loss-limit order",
		"symbol", symbol,
		"side", side,
		"qty", qty.String(),
		"price", price.String(),
		"stop_price", stopPrice.String(),
		"time_in_force", tif,
	)

	resp, err := oe.exchange.PlaceStopLossLimitOrder(ctx, symbol, side, qty, price, stopPrice, tif)
	oe.countOrder(types.OrderTypeStopLossLimit, side, err)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place stop-loss-limit order", err,
			"symbol", symbol,
			"side", side,
			"qty", qty.String(),
		)
		return types.OrderReceipt{}, err
	}

	trace.Annotate(ctx, trace.OrderAttributes(resp)...)
	logger.InfoSkip(ctx, 1, "Stop-loss-limit order placed",
		"symbol", symbol,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}

func (oe *observableExchange) countOrder(typ types.OrderType, side types.Side, err error) {
	metrics.OrdersTotal.WithLabelValues(string(typ), string(side), metrics.Result(err)).Inc()
}
