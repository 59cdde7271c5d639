package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// Signal supplies the latest price prediction for the traded pair.
type Signal interface {
	Latest(ctx context.Context) (decimal.Decimal, error)
}
