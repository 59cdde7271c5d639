package metrics

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bot_cycles_total", Help: "Trading cycles by outcome"},
		[]string{"outcome"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bot_orders_total", Help: "Orders submitted to the exchange"},
		[]string{"type", "side", "result"},
	)
	ExchangeCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bot_exchange_calls_total", Help: "Exchange gateway calls"},
		[]string{"op", "result"},
	)
	LastPrediction = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "bot_last_prediction", Help: "Most recent prediction read from the signal"},
	)
	LastPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "bot_last_price", Help: "Most recent ticker price"},
	)
	NetPosition = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "bot_net_position", Help: "Signed base quantity opened by market orders since start"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, OrdersTotal, ExchangeCallsTotal, LastPrediction, LastPrice, NetPosition)
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve binds addr and exposes /metrics on it in the background. Bind
// errors are returned; the caller closes the server on shutdown.
func Serve(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return srv, nil
}
