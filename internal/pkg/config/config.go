package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr        string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr         string        `env:"ADMIN_ADDR" envDefault:":9091"`
	PostgresURL       string        `env:"POSTGRES_URL,required"`
	RedisAddr         string        `env:"REDIS_ADDR,required"`
	StoreInLimit      int           `env:"STORE_IN_LIMIT" envDefault:"30"` // store's equality-list size limit
	StoreQueryTimeout time.Duration `env:"STORE_QUERY_TIMEOUT" envDefault:"5s"`
	ReportingTimezone string        `env:"REPORTING_TIMEZONE" envDefault:"Asia/Ho_Chi_Minh"`
	HierarchyRefresh  time.Duration `env:"HIERARCHY_REFRESH_INTERVAL" envDefault:"5m"`
	DefaultPageSize   int           `env:"DEFAULT_PAGE_SIZE" envDefault:"50"`
	MaxPageSize       int           `env:"MAX_PAGE_SIZE" envDefault:"200"`
	SessionKeyPrefix  string        `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
