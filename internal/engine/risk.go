package engine

import (
	"github.com/shopspring/decimal"
)

var (
	DefaultStopLossPct = decimal.NewFromInt(1)
	DefaultLimitPct    = decimal.RequireFromString("1.5")

	hundred = decimal.NewFromInt(100)
)

// ComputeStopAndLimit derives the protective SELL stop and limit prices
// below price. The same formula applies whatever the entry side was.
func ComputeStopAndLimit(price, stopLossPct, limitPct decimal.Decimal) (stop, limit decimal.Decimal) {
	stop = price.Mul(decimal.NewFromInt(1).Sub(stopLossPct.Div(hundred)))
	limit = price.Mul(decimal.NewFromInt(1).Sub(limitPct.Div(hundred)))
	return stop, limit
}

// RoundPrice rounds half away from zero to the given number of decimals.
func RoundPrice(price decimal.Decimal, places int32) decimal.Decimal {
	return price.Round(places)
}
