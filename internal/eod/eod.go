package eod

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pred-trading-bot/internal/tradelog"
	"pred-trading-bot/internal/types"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// aggRow accumulates the day's market orders for one symbol.
type aggRow struct {
	Symbol     string
	Buys       int
	BuyQty     decimal.Decimal
	BuyValue   decimal.Decimal
	Sells      int
	SellQty    decimal.Decimal
	SellValue  decimal.Decimal
	StopOrders int
}

// summaryRow is one line of the EOD CSV.
type summaryRow struct {
	Symbol     string `csv:"symbol"`
	Buys       int    `csv:"buys"`
	BuyQty     string `csv:"buy_qty"`
	BuyAvg     string `csv:"buy_avg"`
	Sells      int    `csv:"sells"`
	SellQty    string `csv:"sell_qty"`
	SellAvg    string `csv:"sell_avg"`
	NetQty     string `csv:"net_qty"`
	StopOrders int    `csv:"stop_orders"`
}

type eodSummarizer struct{}

// SummarizeDay aggregates the order journal of t's UTC day into a CSV. It
// returns an empty path when the day has no orders.
func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	aggs, err := readJournal(tradelog.DailyFilepath(t))
	if err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]*summaryRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, aggs[k].summary())
	}

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return "", err
	}
	return outPath, nil
}

// ShouldRunNow reports whether the previous UTC day has a journal but no
// summary yet.
func (s *eodSummarizer) ShouldRunNow(now time.Time) (bool, time.Time) {
	day := previousDay(now)
	if _, err := os.Stat(tradelog.DailyFilepath(day)); err != nil {
		return false, day
	}
	if _, err := os.Stat(eodCSVPath(day)); errors.Is(err, os.ErrNotExist) {
		return true, day
	}
	return false, day
}

func readJournal(path string) (map[string]*aggRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		row := aggs[e.Symbol]
		if row == nil {
			row = &aggRow{Symbol: e.Symbol}
			aggs[e.Symbol] = row
		}
		row.add(e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

func (r *aggRow) add(e tradelog.Entry) {
	if e.Type == string(types.OrderTypeStopLossLimit) {
		r.StopOrders++
		return
	}

	qty, err := decimal.NewFromString(e.Quantity)
	if err != nil {
		return
	}
	// market receipts carry no price; value them at the ticker price seen
	price, err := decimal.NewFromString(e.RefPrice)
	if err != nil {
		price = decimal.Zero
	}

	switch types.Side(e.Side) {
	case types.SideBuy:
		r.Buys++
		r.BuyQty = r.BuyQty.Add(qty)
		r.BuyValue = r.BuyValue.Add(qty.Mul(price))
	case types.SideSell:
		r.Sells++
		r.SellQty = r.SellQty.Add(qty)
		r.SellValue = r.SellValue.Add(qty.Mul(price))
	}
}

func (r *aggRow) summary() *summaryRow {
	return &summaryRow{
		Symbol:     r.Symbol,
		Buys:       r.Buys,
		BuyQty:     r.BuyQty.String(),
		BuyAvg:     average(r.BuyValue, r.BuyQty),
		Sells:      r.Sells,
		SellQty:    r.SellQty.String(),
		SellAvg:    average(r.SellValue, r.SellQty),
		NetQty:     r.BuyQty.Sub(r.SellQty).String(),
		StopOrders: r.StopOrders,
	}
}

func average(value, qty decimal.Decimal) string {
	if qty.IsZero() {
		return "0.00"
	}
	return value.Div(qty).StringFixed(2)
}
