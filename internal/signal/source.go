package signal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pred-trading-bot/internal/api"
	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/logger"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var utf8BOM = []byte("\xef\xbb\xbf")

var (
	ErrNoRows     = errors.New("prediction file has no rows")
	ErrEmptyValue = errors.New("latest pred value is empty")
)

type predictionRow struct {
	Pred string `csv:"pred"`
}

// CSVSource reads the last pred value of a CSV table, from a local file or
// an http(s) URL.
type CSVSource struct {
	path   string
	client *api.Client
}

var _ interfaces.Signal = (*CSVSource)(nil)

func NewCSVSource(path string, timeout time.Duration) *CSVSource {
	return &CSVSource{
		path:   path,
		client: api.NewClient(api.WithTimeout(timeout), api.WithHeader("Accept", "text/csv"), api.WithLogging(true)),
	}
}

func (s *CSVSource) Latest(ctx context.Context) (decimal.Decimal, error) {
	op := logger.StartOperation(ctx, "signal.Latest", "path", s.path)

	b, err := s.read(op.Context())
	if err != nil {
		op.EndWithError(err)
		return decimal.Zero, err
	}

	pred, err := ParsePrediction(b)
	if err != nil {
		op.EndWithError(err)
		return decimal.Zero, fmt.Errorf("%s: %w", s.path, err)
	}

	op.End("prediction", pred.String())
	return pred, nil
}

func (s *CSVSource) read(ctx context.Context) ([]byte, error) {
	if isURL(s.path) {
		return s.client.Fetch(ctx, s.path)
	}
	return os.ReadFile(s.path)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ParsePrediction returns the pred value of the last row of a CSV table.
func ParsePrediction(b []byte) (decimal.Decimal, error) {
	// a leading byte order mark would stick to the first header name
	b = bytes.TrimPrefix(b, utf8BOM)

	var rows []*predictionRow
	if err := gocsv.UnmarshalBytes(b, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, ErrNoRows
	}

	// rows of a file without a pred column decode with an empty value
	raw := strings.TrimSpace(rows[len(rows)-1].Pred)
	if raw == "" {
		return decimal.Zero, ErrEmptyValue
	}
	pred, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pred value %q: %w", raw, err)
	}
	return pred, nil
}
