//go:build !wireinject
// +build !wireinject

package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dagstore-backend/internal/config"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/infrastructure/persistence/sqlite"
	"dagstore-backend/internal/interfaces/http/rest"
	"dagstore-backend/internal/repository"
	graphservice "dagstore-backend/internal/service/graph"
)

// NewContainer creates and initializes the dependency injection
// container.
func NewContainer(ctx context.Context) (*Container, error) {
	container := &Container{
		shutdownFunctions: make([]func(context.Context) error, 0),
	}

	if err := container.initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	return container, nil
}

// initialize sets up all dependencies in construction order.
func (c *Container) initialize(ctx context.Context) error {
	// 1. Configuration
	cfg, err := provideConfig()
	if err != nil {
		return err
	}
	c.Config = cfg

	// 2. Logger
	logger, err := provideLogger(cfg)
	if err != nil {
		return err
	}
	c.Logger = logger
	logger.Info("configuration loaded",
		zap.String("environment", string(cfg.Environment)),
		zap.Strings("sources", cfg.LoadedFrom),
	)

	// 3. Metrics
	c.MetricsCollector = provideMetricsCollector()

	// 4. Tracing. A failed exporter never blocks startup.
	if cfg.Tracing.Enabled {
		tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Environment)
		if err != nil {
			logger.Warn("tracing initialization failed", zap.Error(err))
		} else {
			c.TracerProvider = tracerProvider
			c.addShutdownFunction(tracerProvider.Shutdown)
		}
	}

	// 5. Persistence
	if err := c.initializePersistence(); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	// 6. Application services
	c.GraphService = graphservice.NewService(c.GraphRepository, c.MetricsCollector, logger)

	// 7. HTTP router
	c.Router = rest.NewRouter(c.GraphService, cfg, logger, c.MetricsCollector).Setup()

	// 8. Configuration hot reload (development only)
	c.initializeConfigWatcher()

	logger.Info("dependency injection container initialized")
	return nil
}

// initializePersistence opens the database and builds the decorated
// repository chain.
func (c *Container) initializePersistence() error {
	store, err := sqlite.NewStore(c.Config.Database, c.Logger)
	if err != nil {
		return err
	}
	c.Store = store
	c.addShutdownFunction(func(context.Context) error {
		return store.Close()
	})

	var repo repository.GraphRepository = sqlite.NewGraphRepository(store, c.Logger)
	repo = observability.MeterRepository(repo, c.MetricsCollector)
	if c.TracerProvider != nil {
		repo = observability.TraceRepository(repo, c.TracerProvider.Tracer())
	}
	c.GraphRepository = repo

	return nil
}

// initializeConfigWatcher enables configuration hot reload in
// development.
func (c *Container) initializeConfigWatcher() {
	if !c.Config.IsDevelopment() {
		return
	}

	watcher, err := config.NewWatcher(c.Config, c.Logger)
	if err != nil {
		c.Logger.Warn("config watcher unavailable", zap.Error(err))
		return
	}

	watcher.OnChange(func(newConfig *config.Config) {
		c.Logger.Info("configuration changed; restart to apply server settings",
			zap.Strings("sources", newConfig.LoadedFrom),
		)
	})

	c.ConfigWatcher = watcher
	c.addShutdownFunction(func(context.Context) error {
		watcher.Stop()
		return nil
	})
}
