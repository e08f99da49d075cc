// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"barback/internal/core/types"
)

// Config is the full application configuration surface.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    StoreConfig
	Reports  ReportsConfig
}

// AppConfig holds process-level options.
type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds report cache settings. An empty Addr disables the
// cache entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StoreConfig describes the store itself: receipt header and sales tax.
type StoreConfig struct {
	Name    string
	Address string
	TaxRate types.Money
}

// ReportsConfig holds report cache and scheduler settings.
type ReportsConfig struct {
	CacheTTL   time.Duration
	DigestCron string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env is fine when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	taxRate, err := decimal.NewFromString(getenvWithDefault("STORE_TAX_RATE", "0.07"))
	if err != nil {
		return nil, fmt.Errorf("parse STORE_TAX_RATE: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getenvWithDefault("REPORT_CACHE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("parse REPORT_CACHE_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getenvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			Env:      getenvWithDefault("APP_ENV", "development"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Store: StoreConfig{
			Name:    getenvWithDefault("STORE_NAME", "Barback Liquors"),
			Address: getenvWithDefault("STORE_ADDRESS", ""),
			TaxRate: taxRate,
		},
		Reports: ReportsConfig{
			CacheTTL:   cacheTTL,
			DigestCron: getenvWithDefault("REPORT_DIGEST_CRON", "30 2 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures required fields are populated.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be provided")
	}
	if c.Store.TaxRate.IsNegative() {
		return errors.New("STORE_TAX_RATE cannot be negative")
	}
	if c.Reports.DigestCron == "" {
		return errors.New("REPORT_DIGEST_CRON must be provided")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
