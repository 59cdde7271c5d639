package engine

import (
	"context"
	"time"

	"pred-trading-bot/internal/logger"
	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

// position is the bot's own view of what its market orders have opened.
// The exchange stays the source of truth; this is informational only.
type position struct {
	net       decimal.Decimal // signed base quantity: BUY adds, SELL subtracts
	entries   int
	stops     []string // ids of protective orders still assumed open
	unguarded int      // entries whose protective order was rejected
	lastEntry time.Time
}

// positionManager tracks net exposure per symbol across cycles.
type positionManager struct {
	positions map[string]*position
}

func newPositionManager() *positionManager {
	return &positionManager{
		positions: make(map[string]*position),
	}
}

// get returns the position for symbol, or nil if no order was ever filled.
func (pm *positionManager) get(symbol string) *position {
	return pm.positions[symbol]
}

// addEntry records an accepted market order.
func (pm *positionManager) addEntry(ctx context.Context, entry types.OrderReceipt, at time.Time) *position {
	p := pm.positions[entry.Symbol]
	if p == nil {
		p = &position{}
		pm.positions[entry.Symbol] = p
	}

	qty := entry.Quantity
	if entry.Side == types.SideSell {
		qty = qty.Neg()
	}
	p.net = p.net.Add(qty)
	p.entries++
	p.lastEntry = at

	logger.Debug(ctx, "Position updated",
		"symbol", entry.Symbol,
		"side", entry.Side,
		"net_qty", p.net.String(),
		"entries", p.entries,
	)
	return p
}

// attachStop records the protective order placed for the latest entry, or
// marks the entry unguarded when stopID is empty.
func (pm *positionManager) attachStop(symbol, stopID string) {
	p := pm.positions[symbol]
	if p == nil {
		return
	}
	if stopID == "" {
		p.unguarded++
		return
	}
	p.stops = append(p.stops, stopID)
}
