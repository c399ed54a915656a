// Package config loads and validates application configuration from YAML files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Resolution    ResolutionConfig    `yaml:"resolution"`
	Importer      ImporterConfig      `yaml:"importer"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig describes HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	HandlerTimeout  time.Duration `yaml:"handler_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORS            CORSConfig    `yaml:"cors"`
}

// CORSConfig describes Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// CatalogConfig describes catalog store settings.
type CatalogConfig struct {
	// Driver selects the store backend: "memory" or "postgres".
	Driver          string        `yaml:"driver"`
	DSNEnv          string        `yaml:"dsn_env"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// SeedFile optionally points to a YAML file of units and ingredients
	// loaded into the memory driver at startup.
	SeedFile string `yaml:"seed_file"`
}

// ResolutionConfig describes duplicate-resolution behavior.
type ResolutionConfig struct {
	// DishCancel and PreparationCancel control what an operator cancel
	// choice resolves to: "abort" or "create_new".
	DishCancel        string `yaml:"dish_cancel"`
	PreparationCancel string `yaml:"preparation_cancel"`
}

// ImporterConfig describes import-run engine settings.
type ImporterConfig struct {
	Idempotency IdempotencyConfig `yaml:"idempotency"`

	// ListLimit caps the number of runs returned by the list endpoint.
	ListLimit int `yaml:"list_limit"`
}

// IdempotencyConfig describes idempotency store settings.
type IdempotencyConfig struct {
	Enabled bool                   `yaml:"enabled"`
	Store   IdempotencyStoreConfig `yaml:"store"`
}

// IdempotencyStoreConfig describes idempotency persistence settings.
type IdempotencyStoreConfig struct {
	// Driver selects the store backend: "memory" or "redis".
	Driver     string        `yaml:"driver"`
	AddrEnv    string        `yaml:"addr_env"`
	DB         int           `yaml:"db"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// ObservabilityConfig describes logging, tracing, and metrics settings.
type ObservabilityConfig struct {
	LogLevel string        `yaml:"log_level"`
	Tracing  TracingConfig `yaml:"tracing"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// TracingConfig describes distributed tracing settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// MetricsConfig describes Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			HandlerTimeout:  25 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORS: CORSConfig{
				AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Authorization", "Content-Type",
					"X-Correlation-Id", "X-Idempotency-Key"},
				MaxAge: 86400,
			},
		},
		Catalog: CatalogConfig{
			Driver:          "memory",
			DSNEnv:          "ROACOOK_CATALOG_DSN",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Resolution: ResolutionConfig{
			DishCancel:        "abort",
			PreparationCancel: "create_new",
		},
		Importer: ImporterConfig{
			Idempotency: IdempotencyConfig{
				Enabled: true,
				Store: IdempotencyStoreConfig{
					Driver:     "memory",
					AddrEnv:    "ROACOOK_REDIS_ADDR",
					DefaultTTL: 24 * time.Hour,
				},
			},
			ListLimit: 50,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
			Tracing: TracingConfig{
				Exporter:     "otlp",
				SamplingRate: 0.1,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	switch c.Catalog.Driver {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("catalog.driver %q must be memory or postgres", c.Catalog.Driver))
	}
	if !validCancelPolicy(c.Resolution.DishCancel) {
		errs = append(errs, fmt.Sprintf("resolution.dish_cancel %q must be abort or create_new", c.Resolution.DishCancel))
	}
	if !validCancelPolicy(c.Resolution.PreparationCancel) {
		errs = append(errs, fmt.Sprintf("resolution.preparation_cancel %q must be abort or create_new", c.Resolution.PreparationCancel))
	}
	switch c.Importer.Idempotency.Store.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Sprintf("importer.idempotency.store.driver %q must be memory or redis", c.Importer.Idempotency.Store.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validCancelPolicy(p string) bool {
	return p == "abort" || p == "create_new"
}

// applyEnvOverrides reads ROACOOK_* environment variables and overrides config
// values. Only the most commonly overridden fields are supported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROACOOK_SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ROACOOK_CATALOG_DRIVER"); v != "" {
		cfg.Catalog.Driver = v
	}
	if v := os.Getenv("ROACOOK_OBSERVABILITY_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ROACOOK_RESOLUTION_DISH_CANCEL"); v != "" {
		cfg.Resolution.DishCancel = v
	}
	if v := os.Getenv("ROACOOK_RESOLUTION_PREPARATION_CANCEL"); v != "" {
		cfg.Resolution.PreparationCancel = v
	}
}
