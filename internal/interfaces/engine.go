package interfaces

import (
	"context"

	"pred-trading-bot/internal/types"
)

type Engine interface {
	// Init fetches the symbol metadata. A failure here is fatal.
	Init(ctx context.Context) error

	// Step runs one trading cycle.
	Step(ctx context.Context) (*types.CycleResult, error)
}
