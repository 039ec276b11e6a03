package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTP     HTTP
	Storage  Storage
	Dialog   Dialog
}

type HTTP struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type Storage struct {
	CatalogPath string `env:"CATALOG_PATH" envDefault:"data/fund_categories.json"`
	LedgerPath  string `env:"LEDGER_PATH" envDefault:"data/transactions.json"`
}

type Dialog struct {
	UserSessionLifespan int `env:"USER_SESSION_LIFESPAN" envDefault:"50"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
