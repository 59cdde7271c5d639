package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderType string

const (
	OrderTypeMarket        OrderType = "MARKET"
	OrderTypeStopLossLimit OrderType = "STOP_LOSS_LIMIT"
)

type TimeInForce string

const TimeInForceGTC TimeInForce = "GTC"

// SymbolInfo holds the quantization rules of a trading pair. It is fetched
// once at startup and never refreshed.
type SymbolInfo struct {
	Symbol   string          `json:"symbol"`
	StepSize decimal.Decimal `json:"step_size"`
	TickSize decimal.Decimal `json:"tick_size"`
}

type OrderReq struct {
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      decimal.Decimal
	Price         decimal.NullDecimal
	StopPrice     decimal.NullDecimal
	TimeInForce   TimeInForce
	ClientOrderID string
}

type OrderReceipt struct {
	OrderID       string          `json:"order_id"`
	ClientOrderID string          `json:"client_order_id"`
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	Type          OrderType       `json:"type"`
	Status        string          `json:"status"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	StopPrice     decimal.Decimal `json:"stop_price"`
	TransactTime  int64           `json:"transact_time"`
}

// Outcome classifies how a trading cycle ended.
type Outcome string

const (
	OutcomeNoSignal         Outcome = "NO_SIGNAL"
	OutcomeUnchanged        Outcome = "UNCHANGED"
	OutcomePriceUnavailable Outcome = "PRICE_UNAVAILABLE"
	OutcomeNoAction         Outcome = "NO_ACTION"
	OutcomeOrderFailed      Outcome = "ORDER_FAILED"
	OutcomeProtected        Outcome = "PROTECTED"
	// OutcomeUnprotected means the market order filled but the stop-loss was
	// rejected, so the position is open without protection.
	OutcomeUnprotected Outcome = "UNPROTECTED"
)

type CycleResult struct {
	CycleID    string              `json:"cycle_id"`
	Symbol     string              `json:"symbol"`
	Time       time.Time           `json:"time"`
	Outcome    Outcome             `json:"outcome"`
	Prediction decimal.NullDecimal `json:"prediction"`
	Price      decimal.NullDecimal `json:"price"`
	Side       Side                `json:"side,omitempty"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	Orders     []OrderReceipt      `json:"orders"`
}
