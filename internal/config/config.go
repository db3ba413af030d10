// Package config loads the service configuration from the environment.
//
// Variables are read with the MIARMA_ prefix, lowercased, and mapped onto
// nested structs using "." as the path delimiter:
//
//	MIARMA_DATABASE.DRIVER=sqlite -> database.driver -> Config.Database.Driver
//
// A `.env` file in the working directory is loaded first when present.
// The resulting Config is validated with go-playground/validator struct tags
// so the process refuses to start on missing or malformed settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "MIARMA_"

// ServiceName is reported to logs and APM.
const ServiceName = "miarma-api"

// Config is the root configuration object.
//
// Observability is optional; defaults are injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Query         QueryConfig          `koanf:"query"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds the runtime environment label (local, development, production).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups the HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	// RateLimit caps requests per second from one client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects the driver and sizes the shared connection pool.
//
// Driver is one of:
//   - pgx: PostgreSQL through pgxpool (default)
//   - postgres: PostgreSQL through database/sql and lib/pq
//   - mysql: MySQL/MariaDB through database/sql
//   - sqlite: an embedded SQLite file; Name is the file path
//
// Network settings are not required for sqlite. Lifetimes are in seconds;
// AcquireTimeout is in milliseconds.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"omitempty,oneof=pgx postgres mysql sqlite"`
	Host            string `koanf:"host" validate:"required_unless=Driver sqlite"`
	Port            int    `koanf:"port" validate:"required_unless=Driver sqlite"`
	User            string `koanf:"user" validate:"required_unless=Driver sqlite"`
	Password        string `koanf:"password" validate:"required_unless=Driver sqlite"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
	AcquireTimeout  int    `koanf:"acquire_timeout" validate:"min=0"`
}

// DriverName returns the configured driver, defaulting to pgx.
func (c DatabaseConfig) DriverName() string {
	if c.Driver == "" {
		return "pgx"
	}
	return c.Driver
}

// AcquireTimeoutDuration returns how long a statement may wait for a free
// pooled connection. Zero means the default of five seconds.
func (c DatabaseConfig) AcquireTimeoutDuration() time.Duration {
	if c.AcquireTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.AcquireTimeout) * time.Millisecond
}

// QueryConfig bounds list endpoints.
type QueryConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"omitempty,min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"omitempty,min=1"`
}

// RedisConfig holds the address ("host:port") of the job queue backend.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// IntegrationConfig configures outbound notifications. An empty WebhookURL
// disables them.
type IntegrationConfig struct {
	WebhookURL string `koanf:"webhook_url" validate:"omitempty,url"`
}

// LoadConfig reads, validates and defaults the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}
	return mainConfig, nil
}

// finalize validates the decoded config and fills in defaults.
func (c *Config) finalize() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Query.DefaultLimit == 0 {
		c.Query.DefaultLimit = 50
	}
	if c.Query.MaxLimit == 0 {
		c.Query.MaxLimit = 500
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		return fmt.Errorf("query max_limit (%d) must not be below default_limit (%d)", c.Query.MaxLimit, c.Query.DefaultLimit)
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}
	return nil
}
