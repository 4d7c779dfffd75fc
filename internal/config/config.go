// Package config loads and validates runtime configuration for the DAG
// store service. Configuration is resolved in layers, from lowest to
// highest priority: built-in defaults, configs/config.yaml, the
// environment-specific overlay, local overrides (development only), and
// finally environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Environment identifies the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// ParseEnvironment normalizes an environment name, defaulting to
// development for empty or unrecognized values.
func ParseEnvironment(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Production:
		return Production
	case Staging:
		return Staging
	default:
		return Development
	}
}

// Config is the root configuration for the service.
type Config struct {
	Environment Environment    `yaml:"environment" json:"environment"`
	Server      ServerConfig   `yaml:"server" json:"server"`
	Database    DatabaseConfig `yaml:"database" json:"database"`
	Logging     LoggingConfig  `yaml:"logging" json:"logging"`
	CORS        CORSConfig     `yaml:"cors" json:"cors"`
	Metrics     MetricsConfig  `yaml:"metrics" json:"metrics"`
	Tracing     TracingConfig  `yaml:"tracing" json:"tracing"`

	// LoadedFrom records which sources contributed to this configuration,
	// in the order they were applied. Populated by the loader.
	LoadedFrom []string `yaml:"-" json:"-"`
}

// ServerConfig controls the HTTP listener.
//
// Duration fields are set from defaults and code, not from YAML; the
// shipped configuration files only carry scalar overrides such as the
// port.
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"-" json:"-"`
	WriteTimeout    time.Duration `yaml:"-" json:"-"`
	IdleTimeout     time.Duration `yaml:"-" json:"-"`
	ShutdownTimeout time.Duration `yaml:"-" json:"-"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig controls the SQLite store.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" opens an in-memory
	// database, useful for tests and throwaway environments.
	Path          string `yaml:"path" json:"path"`
	MaxOpenConns  int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns  int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms" json:"busy_timeout_ms"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// Format is json or console.
	Format string `yaml:"format" json:"format"`
}

// CORSConfig controls cross-origin request handling.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" json:"max_age"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// TracingConfig controls OpenTelemetry trace export.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	ServiceName string `yaml:"service_name" json:"service_name"`
	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint   string  `yaml:"endpoint" json:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// IsDevelopment returns true when running in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Validate checks the configuration for values that would prevent the
// service from starting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max_open_conns must be at least 1, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database max_idle_conns must not be negative, got %d", c.Database.MaxIdleConns)
	}
	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database busy_timeout_ms must not be negative, got %d", c.Database.BusyTimeoutMs)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing endpoint is required when tracing is enabled")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing sample_rate must be in [0, 1], got %v", c.Tracing.SampleRate)
		}
	}
	return nil
}

// applyEnvironmentDefaults adjusts settings that follow from the
// environment rather than from explicit configuration.
func (c *Config) applyEnvironmentDefaults() {
	if c.IsProduction() {
		// Production always logs structured JSON.
		c.Logging.Format = "json"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "dagstore-backend"
	}
}
