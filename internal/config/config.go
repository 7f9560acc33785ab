package config

import (
	"fmt"
	"time"

	"transportsystem/avganger/internal/constants"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8080"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	Redis    RedisConfig
	Postgres PostgresConfig

	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/avganger.db"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://*,http://localhost:8081"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	FormSessionTTL time.Duration `env:"FORM_SESSION_TTL" envDefault:"30m"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Key      string `env:"REDIS_DEPARTURES_KEY" envDefault:"departures"`
	Channel  string `env:"REDIS_DEPARTURES_CHANNEL" envDefault:"departures:changed"`
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type PostgresConfig struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     string `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:"postgres"`
	Password string `env:"PG_PASSWORD"`
	DB       string `env:"PG_DB" envDefault:"avganger"`
}

// DSN generates the Postgres connection URL.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DB)
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine; real environment variables still apply
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch constants.StoreBackend(c.StoreBackend) {
	case constants.StoreBackendMemory, constants.StoreBackendRedis,
		constants.StoreBackendSQLite, constants.StoreBackendPostgres:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("config: rate limit must be positive")
	}
	if c.FormSessionTTL <= 0 {
		return fmt.Errorf("config: FORM_SESSION_TTL must be positive")
	}
	return nil
}
