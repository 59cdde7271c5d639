package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pred-trading-bot/internal/types"

	"github.com/shopspring/decimal"
)

const exchangeInfoJSON = `{
  "timezone": "UTC",
  "serverTime": 1700000000000,
  "symbols": [{
    "symbol": "BTCUSDT",
    "status": "TRADING",
    "baseAsset": "BTC",
    "quoteAsset": "USDT",
    "filters": [
      {"filterType": "PRICE_FILTER", "minPrice": "0.01000000", "maxPrice": "1000000.00000000", "tickSize": "0.01000000"},
      {"filterType": "PERCENT_PRICE_BY_SIDE"},
      {"filterType": "LOT_SIZE", "minQty": "0.00001000", "maxQty": "9000.00000000", "stepSize": "0.00010000"}
    ]
  }]
}`

type fakeVenue struct {
	orders []string
}

func (f *fakeVenue) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, exchangeInfoJSON)
	})
	mux.HandleFunc("/api/v3/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"symbol":"BTCUSDT","price":"50000.00000000"}`)
	})
	mux.HandleFunc("/api/v3/order", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		q := r.Form
		f.orders = append(f.orders, q.Encode())
		fmt.Fprintf(w, `{"symbol":%q,"orderId":42,"clientOrderId":%q,"transactTime":1700000000000,"price":"0.00000000","origQty":%q,"executedQty":%q,"status":"FILLED","timeInForce":"GTC","type":%q,"side":%q}`,
			q.Get("symbol"), q.Get("newClientOrderId"), q.Get("quantity"), q.Get("quantity"), q.Get("type"), q.Get("side"))
	})
	return mux
}

func newTestGateway(t *testing.T, mode string, venue *fakeVenue) *Gateway {
	srv := httptest.NewServer(venue.handler(t))
	t.Cleanup(srv.Close)
	return NewGateway(Params{
		Mode:      mode,
		APIKey:    "key",
		APISecret: "secret",
		Testnet:   true,
		Timeout:   5 * time.Second,
		BaseURL:   srv.URL,
	})
}

func TestSymbolInfo(t *testing.T) {
	g := newTestGateway(t, "LIVE", &fakeVenue{})

	info, err := g.SymbolInfo(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("SymbolInfo: %v", err)
	}
	if !info.StepSize.Equal(decimal.RequireFromString("0.0001")) {
		t.Errorf("Expected step 0.0001, got %s", info.StepSize)
	}
	if !info.TickSize.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("Expected tick 0.01, got %s", info.TickSize)
	}

	if _, err := g.SymbolInfo(context.Background(), "ETHUSDT"); err == nil {
		t.Error("Expected error for unlisted symbol")
	}
}

func TestCurrentPrice(t *testing.T) {
	g := newTestGateway(t, "LIVE", &fakeVenue{})

	price, err := g.CurrentPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("CurrentPrice: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected 50000, got %s", price)
	}

	if _, err := g.CurrentPrice(context.Background(), "NOPE"); err == nil {
		t.Error("Expected error for rejected symbol")
	}
}

func TestPlaceOrdersLive(t *testing.T) {
	venue := &fakeVenue{}
	g := newTestGateway(t, "LIVE", venue)
	ctx := context.Background()
	qty := decimal.RequireFromString("0.0010")

	mkt, err := g.PlaceMarketOrder(ctx, "BTCUSDT", types.SideBuy, qty)
	if err != nil {
		t.Fatalf("PlaceMarketOrder: %v", err)
	}
	if mkt.OrderID != "42" || mkt.Status != "FILLED" || mkt.Side != types.SideBuy {
		t.Errorf("Unexpected receipt: %+v", mkt)
	}

	sl, err := g.PlaceStopLossLimitOrder(ctx, "BTCUSDT", types.SideSell, qty,
		decimal.RequireFromString("49250.00"), decimal.RequireFromString("49500.00"), types.TimeInForceGTC)
	if err != nil {
		t.Fatalf("PlaceStopLossLimitOrder: %v", err)
	}
	if sl.Type != types.OrderTypeStopLossLimit {
		t.Errorf("Expected STOP_LOSS_LIMIT, got %s", sl.Type)
	}
	if !sl.StopPrice.Equal(decimal.NewFromInt(49500)) {
		t.Errorf("Expected stop 49500, got %s", sl.StopPrice)
	}

	if len(venue.orders) != 2 {
		t.Fatalf("Expected 2 order requests, got %d", len(venue.orders))
	}
	stopReq := venue.orders[1]
	for _, want := range []string{"type=STOP_LOSS_LIMIT", "side=SELL", "timeInForce=GTC", "price=49250", "stopPrice=49500", "quantity=0.001"} {
		if !strings.Contains(stopReq, want) {
			t.Errorf("Expected %q in stop-loss request %q", want, stopReq)
		}
	}
	if strings.Contains(venue.orders[0], "timeInForce") {
		t.Errorf("Market order must not carry timeInForce: %q", venue.orders[0])
	}
}

func TestPlaceOrderDryRun(t *testing.T) {
	venue := &fakeVenue{}
	g := newTestGateway(t, "DRY_RUN", venue)

	r, err := g.PlaceMarketOrder(context.Background(), "BTCUSDT", types.SideSell, decimal.RequireFromString("0.001"))
	if err != nil {
		t.Fatalf("PlaceMarketOrder: %v", err)
	}
	if r.Status != "SIMULATED" || !strings.HasPrefix(r.OrderID, "SIM-") {
		t.Errorf("Expected simulated receipt, got %+v", r)
	}
	if len(venue.orders) != 0 {
		t.Errorf("DRY_RUN must not reach the venue, got %d requests", len(venue.orders))
	}
}

func TestPlaceOrderMissingCredentials(t *testing.T) {
	g := NewGateway(Params{Mode: "LIVE", Testnet: true})

	_, err := g.PlaceMarketOrder(context.Background(), "BTCUSDT", types.SideBuy, decimal.RequireFromString("0.001"))
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
}
