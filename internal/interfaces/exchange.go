package interfaces

import (
	"context"

	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

// Exchange is the trading venue gateway. Calls are synchronous and not
// idempotent: a retried order may be placed twice.
type Exchange interface {
	// SymbolInfo returns the quantity step and price tick of a trading pair
	SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error)

	// CurrentPrice returns the latest ticker price
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// PlaceMarketOrder submits a MARKET order
	PlaceMarketOrder(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (types.OrderReceipt, error)

	// PlaceStopLossLimitOrder submits a STOP_LOSS_LIMIT order
	PlaceStopLossLimitOrder(ctx context.Context, symbol string, side types.Side, qty, price, stopPrice decimal.Decimal, tif types.TimeInForce) (types.OrderReceipt, error)
}
