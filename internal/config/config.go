// Package config reads CLI defaults from CELL_* environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults. Command-line flags take precedence.
type Config struct {
	Dir            string     `env:"DIR,expand"`
	Format         string     `env:"FORMAT" envDefault:"yaml"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	DevSafety      bool       `env:"DEV_SAFETY" envDefault:"true"`
	Strict         bool       `env:"STRICT" envDefault:"false"`
	MetricsAddress string     `env:"METRICS_ADDRESS,expand"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "CELL_",
	})
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	switch conf.Format {
	case "yaml", "yml", "json":
	default:
		return nil, fmt.Errorf("invalid environment: CELL_FORMAT %q is not yaml, yml or json", conf.Format)
	}

	return &conf, nil
}
