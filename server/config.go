package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from PAPERTRADER_* environment
// variables with an optional .env file.
type Config struct {
	Addr             string        `env:"ADDR" envDefault:":8000"`
	StartingCash     float64       `env:"STARTING_CASH" envDefault:"25000"`
	DataSource       string        `env:"DATA_SOURCE" envDefault:"fixture"`
	DBPath           string        `env:"DB_PATH" envDefault:"papertrader.db"`
	ExportDir        string        `env:"EXPORT_DIR" envDefault:"exports"`
	KafkaBrokers     []string      `env:"KAFKA_BROKERS"`
	KafkaTopic       string        `env:"KAFKA_TOPIC" envDefault:"papertrader.trades"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"2s"`
	MentionsURL      string        `env:"MENTIONS_URL"`
	ScreenerURL      string        `env:"SCREENER_URL"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PAPERTRADER_"}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.StartingCash <= 0 {
		return fmt.Errorf("starting cash must be positive, got %v", c.StartingCash)
	}
	switch c.DataSource {
	case "fixture":
	case "mentions":
		if c.MentionsURL == "" {
			return fmt.Errorf("mentions source needs PAPERTRADER_MENTIONS_URL")
		}
	case "screener":
		if c.ScreenerURL == "" {
			return fmt.Errorf("screener source needs PAPERTRADER_SCREENER_URL")
		}
	default:
		return fmt.Errorf("unknown data source %q (use fixture, mentions or screener)", c.DataSource)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("snapshot interval must be positive, got %s", c.SnapshotInterval)
	}
	return nil
}
