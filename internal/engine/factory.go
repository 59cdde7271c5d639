package engine

import (
	"pred-trading-bot/internal/interfaces"
	"pred-trading-bot/internal/store"
)

func New(cfg *store.Config, exchange interfaces.Exchange, signal interfaces.Signal) interfaces.Engine {
	return newEngine(cfg, exchange, signal)
}
