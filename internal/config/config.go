package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	// APIToken is the static bearer token required on every API request.
	APIToken string `env:"API_TOKEN" envDefault:"dev-token"`

	// DatabaseURL enables the postgres account archive; empty disables it.
	DatabaseURL string `env:"DATABASE_URL"`

	// OracleURL points at an HTTP pricing endpoint; empty selects the
	// built-in static price table.
	OracleURL       string `env:"ORACLE_URL"`
	OracleTimeoutMS int    `env:"ORACLE_TIMEOUT_MS" envDefault:"3000"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
