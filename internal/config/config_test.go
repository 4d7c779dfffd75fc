package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"dagstore-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Point CONFIG_DIR at an empty directory so no file overlays apply.
	os.Setenv("CONFIG_DIR", t.TempDir())
	os.Setenv("ENVIRONMENT", "development")
	defer func() {
		os.Unsetenv("CONFIG_DIR")
		os.Unsetenv("ENVIRONMENT")
	}()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "data/dagstore.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Contains(t, cfg.LoadedFrom, "defaults")
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	os.Setenv("CONFIG_DIR", t.TempDir())
	os.Setenv("ENVIRONMENT", "production")
	os.Setenv("PORT", "9090")
	os.Setenv("DATABASE_PATH", "/tmp/test.db")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("CONFIG_DIR")
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("PORT")
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.Production, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Production forces structured logging regardless of other sources.
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FileOverlayPrecedence(t *testing.T) {
	dir := t.TempDir()

	base := []byte("server:\n  port: 9000\ndatabase:\n  path: base.db\nlogging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), base, 0o644))

	overlay := []byte("database:\n  path: staging.db\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), overlay, 0o644))

	cfg, err := config.NewLoader(dir, config.Staging).Load()
	require.NoError(t, err)

	// The overlay replaces only what it names; the base file and the
	// defaults supply the rest.
	assert.Equal(t, "staging.db", cfg.Database.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Len(t, cfg.LoadedFrom, 4) // defaults, base, overlay, environment
}

func TestLoad_LocalOverridesOnlyInDevelopment(t *testing.T) {
	dir := t.TempDir()

	local := []byte("server:\n  port: 3333\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yaml"), local, 0o644))

	devCfg, err := config.NewLoader(dir, config.Development).Load()
	require.NoError(t, err)
	assert.Equal(t, 3333, devCfg.Server.Port)

	prodCfg, err := config.NewLoader(dir, config.Production).Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, prodCfg.Server.Port)
}

func TestConfigValidation(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.NewLoader(t.TempDir(), config.Development).Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *config.Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing database path",
			mutate:  func(c *config.Config) { c.Database.Path = "" },
			wantErr: "database path is required",
		},
		{
			name:    "no open connections",
			mutate:  func(c *config.Config) { c.Database.MaxOpenConns = 0 },
			wantErr: "max_open_conns",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "plain" },
			wantErr: "invalid log format",
		},
		{
			name: "tracing enabled without endpoint",
			mutate: func(c *config.Config) {
				c.Tracing.Enabled = true
				c.Tracing.Endpoint = ""
			},
			wantErr: "tracing endpoint",
		},
		{
			name: "sample rate above one",
			mutate: func(c *config.Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRate = 1.5
			},
			wantErr: "sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input string
		want  config.Environment
	}{
		{"production", config.Production},
		{"PRODUCTION", config.Production},
		{" staging ", config.Staging},
		{"development", config.Development},
		{"", config.Development},
		{"nonsense", config.Development},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, config.ParseEnvironment(tt.input), "input %q", tt.input)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := config.ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
}
