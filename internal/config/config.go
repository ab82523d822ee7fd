package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `env:"APP_ENV" envDefault:"dev"`

	// DBDriver selects the store: "mysql" (default) or "postgres".
	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	MySQLDSN    string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/taskflow?charset=utf8mb4&parseTime=True&loc=Local"`
	PostgresDSN string `env:"POSTGRES_DSN" envDefault:"host=localhost port=5432 user=taskflow password=taskflow dbname=taskflow sslmode=disable"`
	// ResetDB drops and recreates the schema at startup.
	ResetDB bool `env:"RESET_DB" envDefault:"false"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTIssuer      string        `env:"JWT_ISSUER"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`

	SwaggerHost string `env:"SWAGGER_HOST"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is "text" (default) or "json".
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load builds Config from environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProd reports whether the service runs in production mode.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}

// DSN returns the data source name for the selected driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN
}

// Validate rejects unusable combinations.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	} else if c.IsProd() && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set to a non-default value when APP_ENV=prod"))
	}
	return errors.Join(errs...)
}
