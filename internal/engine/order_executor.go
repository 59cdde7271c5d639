package engine

import (
	"context"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/tradelog"
	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

// orderExecutor places the entry and protective orders and journals them.
type orderExecutor struct {
	exchange interfaces.Exchange
	symbol   string
}

func newOrderExecutor(exchange interfaces.Exchange, symbol string) *orderExecutor {
	return &orderExecutor{
		exchange: exchange,
		symbol:   symbol,
	}
}

// placeEntry submits the MARKET order for the decided side.
func (oe *orderExecutor) placeEntry(ctx context.Context, cycleID string, side types.Side, qty, refPrice decimal.Decimal) (types.OrderReceipt, error) {
	resp, err := oe.exchange.PlaceMarketOrder(ctx, oe.symbol, side, qty)
	if err != nil {
		return types.OrderReceipt{}, err
	}

	logger.Trade(ctx, oe.symbol, string(side), string(types.OrderTypeMarket), qty.String(), resp.OrderID,
		"cycle_id", cycleID,
		"ref_price", refPrice.String(),
		"status", resp.Status,
	)
	oe.journal(cycleID, resp, refPrice)
	return resp, nil
}

// placeProtection submits the SELL STOP_LOSS_LIMIT order that guards the
// position opened by placeEntry.
func (oe *orderExecutor) placeProtection(ctx context.Context, cycleID string, qty, limitPrice, stopPrice, refPrice decimal.Decimal) (types.OrderReceipt, error) {
	resp, err := oe.exchange.PlaceStopLossLimitOrder(ctx, oe.symbol, types.SideSell, qty, limitPrice, stopPrice, types.TimeInForceGTC)
	if err != nil {
		return types.OrderReceipt{}, err
	}

	logger.Trade(ctx, oe.symbol, string(types.SideSell), string(types.OrderTypeStopLossLimit), qty.String(), resp.OrderID,
		"cycle_id", cycleID,
		"price", limitPrice.String(),
		"stop_price", stopPrice.String(),
		"status", resp.Status,
	)
	oe.journal(cycleID, resp, refPrice)
	return resp, nil
}

func (oe *orderExecutor) journal(cycleID string, resp types.OrderReceipt, refPrice decimal.Decimal) {
	_ = tradelog.Append(tradelog.Entry{
		CycleID:       cycleID,
		Symbol:        resp.Symbol,
		Side:          string(resp.Side),
		Type:          string(resp.Type),
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Status:        resp.Status,
		Quantity:      resp.Quantity.String(),
		RefPrice:      refPrice.String(),
		Price:         resp.Price.String(),
		StopPrice:     resp.StopPrice.String(),
	})
}

func (oe *orderExecutor) logDecision(ctx context.Context, cycleID, action string, prediction, price decimal.Decimal) {
	logger.Decision(ctx, oe.symbol, action, prediction.String(), price.String(), "cycle_id", cycleID)

	_ = tradelog.AppendDecision(tradelog.DecisionEntry{
		CycleID:    cycleID,
		Symbol:     oe.symbol,
		Action:     action,
		Prediction: prediction.String(),
		Price:      price.String(),
	})
}
