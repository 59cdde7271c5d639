package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pred-trading-bot/internal/store"
	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

type placedOrder struct {
	typ       types.OrderType
	side      types.Side
	qty       decimal.Decimal
	price     decimal.Decimal
	stopPrice decimal.Decimal
	tif       types.TimeInForce
	ctxErr    error
}

type fakeExchange struct {
	info     types.SymbolInfo
	infoErr  error
	prices   []decimal.Decimal
	priceErr error

	marketErr error
	stopErr   error
	onMarket  func()

	priceCalls int
	orders     []placedOrder
	nextID     int
}

func newFakeExchange(step string, prices ...string) *fakeExchange {
	fx := &fakeExchange{
		info: types.SymbolInfo{
			Symbol:   "BTCUSDT",
			StepSize: decimal.RequireFromString(step),
			TickSize: decimal.RequireFromString("0.01"),
		},
	}
	for _, p := range prices {
		fx.prices = append(fx.prices, decimal.RequireFromString(p))
	}
	return fx
}

func (f *fakeExchange) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	if f.infoErr != nil {
		return types.SymbolInfo{}, f.infoErr
	}
	return f.info, nil
}

func (f *fakeExchange) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	f.priceCalls++
	if f.priceErr != nil {
		return decimal.Zero, f.priceErr
	}
	if len(f.prices) == 0 {
		return decimal.Zero, errors.New("no price scripted")
	}
	p := f.prices[0]
	if len(f.prices) > 1 {
		f.prices = f.prices[1:]
	}
	return p, nil
}

func (f *fakeExchange) PlaceMarketOrder(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (types.OrderReceipt, error) {
	f.orders = append(f.orders, placedOrder{typ: types.OrderTypeMarket, side: side, qty: qty, ctxErr: ctx.Err()})
	if f.onMarket != nil {
		f.onMarket()
	}
	if f.marketErr != nil {
		return types.OrderReceipt{}, f.marketErr
	}
	return f.receipt(symbol, types.OrderTypeMarket, side, qty), nil
}

func (f *fakeExchange) PlaceStopLossLimitOrder(ctx context.Context, symbol string, side types.Side, qty, price, stopPrice decimal.Decimal, tif types.TimeInForce) (types.OrderReceipt, error) {
	f.orders = append(f.orders, placedOrder{
		typ: types.OrderTypeStopLossLimit, side: side, qty: qty,
		price: price, stopPrice: stopPrice, tif: tif, ctxErr: ctx.Err(),
	})
	if f.stopErr != nil {
		return types.OrderReceipt{}, f.stopErr
	}
	r := f.receipt(symbol, types.OrderTypeStopLossLimit, side, qty)
	r.Price = price
	r.StopPrice = stopPrice
	return r, nil
}

func (f *fakeExchange) receipt(symbol string, typ types.OrderType, side types.Side, qty decimal.Decimal) types.OrderReceipt {
	f.nextID++
	return types.OrderReceipt{
		OrderID:  fmt.Sprintf("%d", f.nextID),
		Symbol:   symbol,
		Side:     side,
		Type:     typ,
		Status:   "NEW",
		Quantity: qty,
	}
}

func (f *fakeExchange) ordersOfType(typ types.OrderType) []placedOrder {
	var out []placedOrder
	for _, o := range f.orders {
		if o.typ == typ {
			out = append(out, o)
		}
	}
	return out
}

// fakeSignal returns its scripted values in order, repeating the last one.
type fakeSignal struct {
	values []string
	err    error
	reads  int
}

func (s *fakeSignal) Latest(ctx context.Context) (decimal.Decimal, error) {
	s.reads++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	i := s.reads - 1
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	return decimal.RequireFromString(s.values[i]), nil
}

// fakeClock counts waits and cancels the loop after limit of them.
type fakeClock struct {
	waits  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (c *fakeClock) Wait(ctx context.Context, d time.Duration) error {
	c.waits = append(c.waits, d)
	if len(c.waits) >= c.limit {
		c.cancel()
		return ctx.Err()
	}
	return nil
}

func testConfig(t *testing.T) *store.Config {
	t.Helper()
	return testConfigYAML(t, "mode: DRY_RUN\nsymbol: BTCUSDT\n")
}

func testConfigYAML(t *testing.T, raw string) *store.Config {
	t.Helper()
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	cfg, err := store.ParseConfig([]byte(raw))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return cfg
}

func newTestEngine(t *testing.T, fx *fakeExchange, sig *fakeSignal) *Engine {
	t.Helper()
	e := newEngine(testConfig(t), fx, sig)
	if err := e.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return e
}
