// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const devJWTSecret = "dev-only-change-me"

type Config struct {
	HTTPAddr string

	StorageDriver string
	SQLitePath    string
	PostgresURL   string

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel    string
	CORSOrigins []string
}

type configFile struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Storage struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads configuration. A missing YAML file or .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:      ":8080",
		StorageDriver: DriverSQLite,
		SQLitePath:    "./data/tripsplit.db",
		JWTSecret:     devJWTSecret,
		TokenTTL:      24 * time.Hour,
		LogLevel:      "info",
		CORSOrigins:   []string{"*"},
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.StorageDriver = strings.ToLower(envOrDefault("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.SQLitePath = envOrDefault("DB_PATH", cfg.SQLitePath)
	cfg.PostgresURL = envOrDefault("DATABASE_URL", cfg.PostgresURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.CORSOrigins = envCSV("CORS_ORIGINS", cfg.CORSOrigins)
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DevSecret reports whether the JWT secret is still the built-in development value.
func (c Config) DevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Server.Addr != "" {
		cfg.HTTPAddr = f.Server.Addr
	}
	if len(f.Server.CORSOrigins) > 0 {
		cfg.CORSOrigins = trimNonEmpty(f.Server.CORSOrigins)
	}
	if f.Storage.Driver != "" {
		cfg.StorageDriver = strings.ToLower(f.Storage.Driver)
	}
	if f.Storage.SQLitePath != "" {
		cfg.SQLitePath = f.Storage.SQLitePath
	}
	if f.Storage.PostgresURL != "" {
		cfg.PostgresURL = f.Storage.PostgresURL
	}
	if f.Auth.JWTSecret != "" {
		cfg.JWTSecret = f.Auth.JWTSecret
	}
	if f.Auth.TokenTTL != "" {
		ttl, err := time.ParseDuration(f.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("parse auth.token_ttl: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	return nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("missing DB_PATH for sqlite storage")
		}
	case DriverPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("missing DATABASE_URL for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
