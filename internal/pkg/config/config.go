package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSessionSecret = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	AppURL   string `env:"APP_URL,   default=http://localhost:8080"`

	Session SessionConfig
	Login   LoginConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET, required"`
	TTL    time.Duration `env:"SESSION_TTL,    default=2h"`
	Cookie string        `env:"SESSION_COOKIE, default=storefront_session"`
	Secure bool          `env:"SESSION_SECURE, default=false"`
	Driver string        `env:"SESSION_DRIVER, default=redis"`
}

// LoginConfig throttles POST /login per client IP: Rate attempts per minute
// with bursts of Burst.
type LoginConfig struct {
	Rate  float64 `env:"LOGIN_RATE,  default=5"`
	Burst int     `env:"LOGIN_BURST, default=5"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Session.Secret) < minSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecret)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.Session.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_DRIVER must be redis or memory, got %q", c.Session.Driver)
	}
	if c.Login.Rate <= 0 || c.Login.Burst <= 0 {
		return errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}
	return nil
}
