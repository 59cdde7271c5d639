package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/types"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Params struct {
	Mode      string // DRY_RUN or LIVE
	APIKey    string
	APISecret string
	Testnet   bool
	Timeout   time.Duration
	// BaseURL overrides the REST endpoint; empty keeps the library default.
	BaseURL string
}

// Gateway talks to the Binance spot REST API. In DRY_RUN mode metadata and
// prices are real but orders are simulated locally.
type Gateway struct {
	p      Params
	client *gobinance.Client
}

var _ interfaces.Exchange = (*Gateway)(nil)

var ErrMissingCredentials = errors.New("missing Binance API key/secret")

func NewGateway(p Params) *Gateway {
	// package-level switch read by NewClient
	gobinance.UseTestnet = p.Testnet

	client := gobinance.NewClient(p.APIKey, p.APISecret)
	if p.Timeout > 0 {
		client.HTTPClient = &http.Client{Timeout: p.Timeout}
	}
	if p.BaseURL != "" {
		client.BaseURL = p.BaseURL
	}
	return &Gateway{p: p, client: client}
}

func (g *Gateway) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	info, err := g.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.SymbolInfo{}, fmt.Errorf("exchange info: %w", err)
	}

	for i := range info.Symbols {
		s := &info.Symbols[i]
		if s.Symbol != symbol {
			continue
		}
		lot := s.LotSizeFilter()
		if lot == nil {
			return types.SymbolInfo{}, fmt.Errorf("%s: no LOT_SIZE filter", symbol)
		}
		pf := s.PriceFilter()
		if pf == nil {
			return types.SymbolInfo{}, fmt.Errorf("%s: no PRICE_FILTER filter", symbol)
		}
		step, err := decimal.NewFromString(lot.StepSize)
		if err != nil {
			return types.SymbolInfo{}, fmt.Errorf("%s: step size %q: %w", symbol, lot.StepSize, err)
		}
		tick, err := decimal.NewFromString(pf.TickSize)
		if err != nil {
			return types.SymbolInfo{}, fmt.Errorf("%s: tick size %q: %w", symbol, pf.TickSize, err)
		}
		return types.SymbolInfo{Symbol: symbol, StepSize: step, TickSize: tick}, nil
	}
	return types.SymbolInfo{}, fmt.Errorf("symbol %s not listed", symbol)
}

func (g *Gateway) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := g.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker price: %w", err)
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return decimal.Zero, fmt.Errorf("ticker price %q: %w", p.Price, err)
			}
			return price, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no ticker price for %s", symbol)
}

func (g *Gateway) PlaceMarketOrder(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (types.OrderReceipt, error) {
	return g.placeOrder(ctx, types.OrderReq{
		Symbol:        symbol,
		Side:          side,
		Type:          types.OrderTypeMarket,
		Quantity:      qty,
		ClientOrderID: uuid.NewString(),
	})
}

func (g *Gateway) PlaceStopLossLimitOrder(ctx context.Context, symbol string, side types.Side, qty, price, stopPrice decimal.Decimal, tif types.TimeInForce) (types.OrderReceipt, error) {
	return g.placeOrder(ctx, types.OrderReq{
		Symbol:        symbol,
		Side:          side,
		Type:          types.OrderTypeStopLossLimit,
		Quantity:      qty,
		Price:         decimal.NullDecimal{Decimal: price, Valid: true},
		StopPrice:     decimal.NullDecimal{Decimal: stopPrice, Valid: true},
		TimeInForce:   tif,
		ClientOrderID: uuid.NewString(),
	})
}

func (g *Gateway) placeOrder(ctx context.Context, req types.OrderReq) (types.OrderReceipt, error) {
	if g.p.Mode == "DRY_RUN" {
		return simulate(req), nil
	}

	if g.p.APIKey == "" || g.p.APISecret == "" {
		return types.OrderReceipt{}, ErrMissingCredentials
	}

	svc := g.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(gobinance.SideType(req.Side)).
		Type(gobinance.OrderType(req.Type)).
		Quantity(req.Quantity.String()).
		NewClientOrderID(req.ClientOrderID)
	if req.Price.Valid {
		svc = svc.Price(req.Price.Decimal.String())
	}
	if req.StopPrice.Valid {
		svc = svc.StopPrice(req.StopPrice.Decimal.String())
	}
	if req.TimeInForce != "" {
		svc = svc.TimeInForce(gobinance.TimeInForceType(req.TimeInForce))
	}

	resp, err := svc.Do(ctx)
	if err != nil {
		return types.OrderReceipt{}, fmt.Errorf("create %s %s order: %w", req.Side, req.Type, err)
	}
	return receiptFromResponse(req, resp), nil
}

func receiptFromResponse(req types.OrderReq, resp *gobinance.CreateOrderResponse) types.OrderReceipt {
	r := types.OrderReceipt{
		OrderID:       strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID: resp.ClientOrderID,
		Symbol:        resp.Symbol,
		Side:          types.Side(resp.Side),
		Type:          types.OrderType(resp.Type),
		Status:        string(resp.Status),
		Quantity:      req.Quantity,
		Price:         req.Price.Decimal,
		StopPrice:     req.StopPrice.Decimal,
		TransactTime:  resp.TransactTime,
	}
	if q, err := decimal.NewFromString(resp.OrigQuantity); err == nil {
		r.Quantity = q
	}
	if r.Symbol == "" {
		r.Symbol = req.Symbol
	}
	if r.Side == "" {
		r.Side = req.Side
	}
	if r.Type == "" {
		r.Type = req.Type
	}
	return r
}

func simulate(req types.OrderReq) types.OrderReceipt {
	now := time.Now()
	return types.OrderReceipt{
		OrderID:       fmt.Sprintf("SIM-%d", now.UnixNano()),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          req.Type,
		Status:        "SIMULATED",
		Quantity:      req.Quantity,
		Price:         req.Price.Decimal,
		StopPrice:     req.StopPrice.Decimal,
		TransactTime:  now.UnixMilli(),
	}
}
