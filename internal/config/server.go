package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	InitialBalanceCC  int64 `env:"INITIAL_BALANCE_CC" envDefault:"100000"`
	GrantAmountCC     int64 `env:"GRANT_AMOUNT_CC" envDefault:"5000"`
	GrantIntervalMins int   `env:"GRANT_INTERVAL_MINUTES" envDefault:"1440"`

	MinWagerCC int64 `env:"MIN_WAGER_CC" envDefault:"10"`
	MaxWagerCC int64 `env:"MAX_WAGER_CC" envDefault:"100000"`

	MaxCaptureBytes int `env:"LOG_BODY_CAPTURE_BYTES" envDefault:"4096"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
