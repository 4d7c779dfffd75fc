package di

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dagstore-backend/internal/config"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/infrastructure/persistence/sqlite"
	"dagstore-backend/internal/repository"
	graphservice "dagstore-backend/internal/service/graph"
)

// Container holds every constructed component. It is shared between
// Wire generation and the manual initialization path.
type Container struct {
	// Foundation
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	Store            *sqlite.Store
	GraphRepository  repository.GraphRepository
	MetricsCollector *observability.Collector
	TracerProvider   *observability.TracerProvider

	// Application
	GraphService graphservice.Service

	// Interface
	Router http.Handler

	// Development helpers
	ConfigWatcher *config.Watcher

	// Lifecycle management
	shutdownFunctions []func(context.Context) error
}

// addShutdownFunction registers a function to run during Shutdown.
func (c *Container) addShutdownFunction(fn func(context.Context) error) {
	c.shutdownFunctions = append(c.shutdownFunctions, fn)
}

// Shutdown releases container resources in reverse construction order.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(c.shutdownFunctions) - 1; i >= 0; i-- {
		if err := c.shutdownFunctions[i](ctx); err != nil {
			errs = append(errs, err)
			if c.Logger != nil {
				c.Logger.Error("error during shutdown", zap.Error(err))
			}
		}
	}
	return errors.Join(errs...)
}
