// Package di assembles the application: configuration, logging,
// persistence, observability and the HTTP surface. Providers are
// grouped by layer so Wire and the manual container share one wiring.
package di

import (
	"fmt"
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"

	"dagstore-backend/internal/config"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/infrastructure/persistence/sqlite"
	"dagstore-backend/internal/interfaces/http/rest"
	"dagstore-backend/internal/repository"
	graphservice "dagstore-backend/internal/service/graph"
)

// SuperSet combines all provider sets for the complete application.
var SuperSet = wire.NewSet(
	ConfigProviders,
	InfrastructureProviders,
	ServiceProviders,
	InterfaceProviders,
)

// ConfigProviders provides configuration-related dependencies.
var ConfigProviders = wire.NewSet(
	provideConfig,
	provideLogger,
)

// InfrastructureProviders provides persistence and observability.
var InfrastructureProviders = wire.NewSet(
	provideStore,
	provideMetricsCollector,
	provideGraphRepository,
)

// ServiceProviders provides the application services.
var ServiceProviders = wire.NewSet(
	provideGraphService,
)

// InterfaceProviders provides the HTTP layer.
var InterfaceProviders = wire.NewSet(
	provideRouter,
)

func provideConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Logging.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func provideStore(cfg *config.Config, logger *zap.Logger) (*sqlite.Store, error) {
	return sqlite.NewStore(cfg.Database, logger)
}

func provideMetricsCollector() *observability.Collector {
	return observability.NewCollector("dagstore")
}

func provideGraphRepository(
	store *sqlite.Store,
	collector *observability.Collector,
	logger *zap.Logger,
) repository.GraphRepository {
	return observability.MeterRepository(sqlite.NewGraphRepository(store, logger), collector)
}

func provideGraphService(
	repo repository.GraphRepository,
	collector *observability.Collector,
	logger *zap.Logger,
) graphservice.Service {
	return graphservice.NewService(repo, collector, logger)
}

func provideRouter(
	svc graphservice.Service,
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
) http.Handler {
	return rest.NewRouter(svc, cfg, logger, collector).Setup()
}
