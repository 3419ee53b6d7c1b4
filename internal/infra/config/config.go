package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store driver names accepted in STORE_DRIVER.
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// AppConfig holds all configuration for the notifier daemon.
type AppConfig struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	OwnerChatID   int64  `envconfig:"OWNER_CHAT_ID" required:"true"`
	StoreDriver   string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite|postgres
	DatabaseURL   string `envconfig:"DATABASE_URL"`                  // required for postgres
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"./data/notifier.db"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	Environment   string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv never overrides variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	switch cfg.StoreDriver {
	case StoreDriverSQLite:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	return cfg, nil
}
