package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/openfroyo/crudapi/pkg/stores"
)

// localOrigin is always allowed alongside CORS_ORIGINS.
const localOrigin = "http://localhost"

// Config is the process configuration read from the environment.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// DatabaseConfig selects and addresses the relational store.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite" yaml:"driver"`
	Host     string `env:"DB_HOST" envDefault:"localhost" validate:"required_if=Driver postgres" yaml:"host"`
	Port     int    `env:"DB_PORT" envDefault:"5432" validate:"min=1,max=65535" yaml:"port"`
	Username string `env:"DB_USERNAME" envDefault:"postgres" yaml:"username"`
	Password string `env:"DB_PASSWORD" envDefault:"matkhau" yaml:"password"`
	Database string `env:"DB_DATABASE" envDefault:"icloud_db" validate:"required_if=Driver postgres" yaml:"database"`
	SSLMode  string `env:"DB_SSLMODE" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full" yaml:"sslmode,omitempty"`

	Path string `env:"DB_PATH" envDefault:"crudapi.db" validate:"required_if=Driver sqlite" yaml:"path"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25" validate:"min=0" yaml:"max_open_conns"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"min=0" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m" yaml:"conn_max_lifetime"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr        string   `env:"HTTP_ADDR" envDefault:":8000" validate:"required" yaml:"addr"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:"," yaml:"cors_origins"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Database,
	}
	if d.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// StoreConfig converts the database settings into a stores.Config.
func (d DatabaseConfig) StoreConfig() (stores.Config, error) {
	dialect, err := stores.ParseDialect(d.Driver)
	if err != nil {
		return stores.Config{}, err
	}

	cfg := stores.Config{
		Dialect:         dialect,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
	}
	if dialect == stores.DialectPostgres {
		cfg.DSN = d.DSN()
	} else {
		cfg.Path = d.Path
	}
	return cfg, nil
}

// AllowedOrigins returns the CORS allow-list: CORS_ORIGINS plus http://localhost.
func (h HTTPConfig) AllowedOrigins() []string {
	seen := make(map[string]bool)
	origins := make([]string, 0, len(h.CORSOrigins)+1)
	for _, o := range append(append([]string{}, h.CORSOrigins...), localOrigin) {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "********"
	}
	return c
}
