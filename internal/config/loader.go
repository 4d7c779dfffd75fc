package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader resolves configuration from files and environment variables.
type Loader struct {
	// basePath is the directory holding configuration files.
	basePath string

	// environment selects the environment-specific overlay.
	environment Environment

	// sources records where configuration was loaded from.
	sources []string

	// fileLoaders maps file extensions to their decoders.
	fileLoaders map[string]FileLoader
}

// FileLoader decodes one configuration file format.
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// NewLoader creates a loader rooted at basePath for the given
// environment. An empty basePath defaults to "configs".
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "configs"
	}

	loader := &Loader{
		basePath:    basePath,
		environment: env,
		sources:     make([]string, 0),
		fileLoaders: make(map[string]FileLoader),
	}

	loader.RegisterLoader(&YAMLLoader{})
	loader.RegisterLoader(&JSONLoader{})

	return loader
}

// RegisterLoader registers a decoder for a file extension.
func (l *Loader) RegisterLoader(loader FileLoader) {
	l.fileLoaders[loader.Extension()] = loader
}

// Load resolves the configuration. The loading order, from lowest to
// highest priority:
//  1. Default values (in code)
//  2. Base file (config.yaml)
//  3. Environment-specific file (e.g. config.production.yaml)
//  4. Local overrides (config.local.yaml, development only)
//  5. Environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := l.defaultConfig()
	l.sources = append(l.sources, "defaults")

	if err := l.loadFile("config", cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load base config: %w", err)
	}

	envFile := "config." + strings.ToLower(string(l.environment))
	if err := l.loadFile(envFile, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if l.environment == Development {
		if err := l.loadFile("config.local", cfg); err != nil && !os.IsNotExist(err) {
			// Local overrides are best-effort in development.
			fmt.Fprintf(os.Stderr, "Warning: failed to load local config: %v\n", err)
		}
	}

	l.loadEnvironmentVariables(cfg)
	l.sources = append(l.sources, "environment")

	cfg.LoadedFrom = l.sources
	cfg.applyEnvironmentDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile loads one named configuration file, trying each registered
// extension in turn.
func (l *Loader) loadFile(name string, cfg *Config) error {
	for ext, loader := range l.fileLoaders {
		path := filepath.Join(l.basePath, fmt.Sprintf("%s.%s", name, ext))

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		defer file.Close()

		if err := loader.Load(file, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		l.sources = append(l.sources, path)
		return nil
	}

	return os.ErrNotExist
}

// loadEnvironmentVariables overlays environment variables on the
// configuration. These take priority over every file source.
func (l *Loader) loadEnvironmentVariables(cfg *Config) {
	if val := os.Getenv("PORT"); val != "" {
		if port := parseInt(val); port > 0 {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("HOST"); val != "" {
		cfg.Server.Host = val
	}

	if val := os.Getenv("DATABASE_PATH"); val != "" {
		cfg.Database.Path = val
	}
	if val := os.Getenv("DATABASE_MAX_OPEN_CONNS"); val != "" {
		if n := parseInt(val); n > 0 {
			cfg.Database.MaxOpenConns = n
		}
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Logging.Format = strings.ToLower(val)
	}

	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(val)
	}

	if val := os.Getenv("METRICS_ENABLED"); val != "" {
		cfg.Metrics.Enabled = parseBool(val)
	}

	if val := os.Getenv("TRACING_ENABLED"); val != "" {
		cfg.Tracing.Enabled = parseBool(val)
	}
	if val := os.Getenv("TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv("TRACING_SAMPLE_RATE"); val != "" {
		if rate, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Tracing.SampleRate = rate
		}
	}
}

// defaultConfig returns a configuration with defaults that let the
// service run without any configuration files present.
func (l *Loader) defaultConfig() *Config {
	return &Config{
		Environment: l.environment,
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:          "data/dagstore.db",
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			BusyTimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "dagstore-backend",
			Endpoint:    "localhost:4317",
			SampleRate:  0.1,
		},
	}
}

// LoadConfig resolves configuration using the ENVIRONMENT and CONFIG_DIR
// environment variables to pick the overlay and file location.
func LoadConfig() (*Config, error) {
	env := ParseEnvironment(os.Getenv("ENVIRONMENT"))
	return NewLoader(os.Getenv("CONFIG_DIR"), env).Load()
}

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(reader)
	return decoder.Decode(target)
}

func (y *YAMLLoader) Extension() string {
	return "yaml"
}

// JSONLoader loads configuration from JSON files.
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target interface{}) error {
	decoder := json.NewDecoder(reader)
	return decoder.Decode(target)
}

func (j *JSONLoader) Extension() string {
	return "json"
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return b
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
