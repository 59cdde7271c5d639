package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const defaultPriceDecimals int32 = 2

type Config struct {
	Mode        string `yaml:"mode"`
	Network     string `yaml:"network"`
	Symbol      string `yaml:"symbol"`
	PollSeconds int    `yaml:"poll_seconds"`
	Signal      struct {
		Path           string `yaml:"path"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"signal"`
	Qty struct {
		Base string `yaml:"base"`
	} `yaml:"qty"`
	Stop struct {
		LossPct       float64 `yaml:"loss_pct"`
		LimitPct      float64 `yaml:"limit_pct"`
		// nil means unset; 0 is a valid value for coarse-tick pairs
		PriceDecimals *int32 `yaml:"price_decimals"`
	} `yaml:"stop"`
	Exchange struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"exchange"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	// BaseQty is Qty.Base parsed during LoadConfig.
	BaseQty decimal.Decimal `yaml:"-"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Network != "TESTNET" && c.Network != "MAINNET" {
		return fmt.Errorf("invalid network '%s': must be 'TESTNET' or 'MAINNET'", c.Network)
	}
	if c.Symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.Signal.Path == "" {
		return errors.New("signal.path cannot be empty")
	}
	qty, err := decimal.NewFromString(c.Qty.Base)
	if err != nil {
		return fmt.Errorf("qty.base '%s' is not a decimal: %w", c.Qty.Base, err)
	}
	if !qty.IsPositive() {
		return fmt.Errorf("qty.base must be positive, got %s", c.Qty.Base)
	}
	c.BaseQty = qty
	if c.Stop.LossPct <= 0 || c.Stop.LossPct >= 100 {
		return fmt.Errorf("stop.loss_pct must be between 0-100, got %.2f", c.Stop.LossPct)
	}
	if c.Stop.LimitPct <= 0 || c.Stop.LimitPct >= 100 {
		return fmt.Errorf("stop.limit_pct must be between 0-100, got %.2f", c.Stop.LimitPct)
	}
	if p := c.PricePlaces(); p < 0 || p > 8 {
		return fmt.Errorf("stop.price_decimals must be between 0-8, got %d", p)
	}
	return nil
}

// PricePlaces is the number of decimals stop and limit prices are rounded to.
func (c *Config) PricePlaces() int32 {
	if c.Stop.PriceDecimals == nil {
		return defaultPriceDecimals
	}
	return *c.Stop.PriceDecimals
}

// Testnet reports whether orders go to the exchange sandbox.
func (c *Config) Testnet() bool {
	return c.Network == "TESTNET"
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML, fills defaults and validates the result.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.Mode = strings.ToUpper(c.Mode)
	c.Network = strings.ToUpper(c.Network)
	if c.Network == "" {
		c.Network = "TESTNET"
	}
	if c.Symbol == "" {
		c.Symbol = "BTCUSDT"
	}
	c.Symbol = strings.ToUpper(c.Symbol)
	if c.PollSeconds == 0 {
		c.PollSeconds = 3600
	}
	if c.Signal.Path == "" {
		c.Signal.Path = "pred.csv"
	}
	if c.Signal.TimeoutSeconds == 0 {
		c.Signal.TimeoutSeconds = 30
	}
	if c.Qty.Base == "" {
		c.Qty.Base = "0.001"
	}
	if c.Stop.LossPct == 0 {
		c.Stop.LossPct = 1.0
	}
	if c.Stop.LimitPct == 0 {
		c.Stop.LimitPct = 1.5
	}
	if c.Stop.PriceDecimals == nil {
		places := defaultPriceDecimals
		c.Stop.PriceDecimals = &places
	}
	if c.Exchange.TimeoutSeconds == 0 {
		c.Exchange.TimeoutSeconds = 10
	}
}
