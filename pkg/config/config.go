package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file,
// panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // missing .env file is fine, env vars still apply

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine service.
type Config struct {
	Symbol string `env:"SYMBOL" envDefault:"SOLUSDT"` // Trading symbol, e.g. SOLUSDT

	Rules   RulesConfig   `envPrefix:"RULES_"`
	Clock   ClockConfig   `envPrefix:"CLOCK_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	Trades  TradesConfig  `envPrefix:"TRADES_"`
	Feed    FeedConfig    `envPrefix:"FEED_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// RulesConfig holds the exchange rule parameters for order validation.
type RulesConfig struct {
	TickSize    int32  `env:"TICK_SIZE" envDefault:"1"`
	LotSize     uint32 `env:"LOT_SIZE" envDefault:"1"`
	MinQuantity uint32 `env:"MIN_QUANTITY" envDefault:"1"`
	MaxQuantity uint32 `env:"MAX_QUANTITY" envDefault:"1000000"`
	MinNotional int64  `env:"MIN_NOTIONAL" envDefault:"0"`
}

// ClockConfig holds the daily reset instant for good-for-day orders.
type ClockConfig struct {
	ResetHour   int `env:"RESET_HOUR" envDefault:"15"`
	ResetMinute int `env:"RESET_MINUTE" envDefault:"59"`
}

// KafkaConfig holds the configuration for the market data event consumer.
type KafkaConfig struct {
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"market-data-events"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching-engine"`
}

// TradesConfig holds the configuration for the trade publisher.
type TradesConfig struct {
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// FeedConfig holds the configuration for the live depth feed poller.
type FeedConfig struct {
	BaseURL  string        `env:"BASE_URL" envDefault:"https://api.binance.com"`
	Interval time.Duration `env:"INTERVAL" envDefault:"1s"`
	Levels   int           `env:"LEVELS" envDefault:"20"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// MetricsConfig holds the configuration for the prometheus endpoint.
type MetricsConfig struct {
	Addr string `env:"ADDR" envDefault:":9100"`
}
