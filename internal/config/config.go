package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port            string        `env:"APP_PORT" envDefault:"8080" validate:"required,numeric"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	TraceStdout     bool          `env:"TRACE_STDOUT" envDefault:"false"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory" validate:"oneof=memory sqlite mysql postgres redis"`
	StorageDSN    string `env:"STORAGE_DSN" validate:"required_unless=StorageDriver memory"`

	InventoryURL     string        `env:"INVENTORY_URL" validate:"omitempty,url"`
	InventoryTimeout time.Duration `env:"INVENTORY_TIMEOUT" envDefault:"10s"`

	CatalogDriver   string `env:"CATALOG_DRIVER" validate:"omitempty,oneof=sqlite mysql"`
	CatalogDSN      string `env:"CATALOG_DSN" validate:"required_with=CatalogDriver"`
	CatalogSeedFile string `env:"CATALOG_SEED_FILE"`

	SessionSecret      string        `env:"SESSION_SECRET" envDefault:"rocketshoes-dev-secret" validate:"min=8"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m" validate:"gte=0"`
}

var errNoInventory = errors.New("one of INVENTORY_URL or CATALOG_DRIVER must be set")

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.CatalogDriver = strings.ToLower(strings.TrimSpace(cfg.CatalogDriver))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if cfg.InventoryURL == "" && cfg.CatalogDriver == "" {
		return Config{}, errNoInventory
	}
	if cfg.CatalogSeedFile != "" && cfg.CatalogDriver == "" {
		return Config{}, errors.New("CATALOG_SEED_FILE requires CATALOG_DRIVER")
	}
	return cfg, nil
}

// UseRemoteInventory reports whether product and stock lookups go to the
// remote inventory service rather than the local catalog.
func (c Config) UseRemoteInventory() bool {
	return c.InventoryURL != ""
}
