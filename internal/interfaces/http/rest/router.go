// Package rest wires the HTTP surface of the DAG store: routes,
// middleware ordering and the exposed operational endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dagstore-backend/internal/config"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/interfaces/http/rest/handlers"
	"dagstore-backend/internal/middleware"
	graphservice "dagstore-backend/internal/service/graph"
)

// Router creates and configures the HTTP router.
type Router struct {
	service graphservice.Service
	config  *config.Config
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewRouter creates a new router instance.
func NewRouter(
	service graphservice.Service,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *Router {
	return &Router{
		service: service,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Recovery(rt.logger))
	router.Use(middleware.Timeout(rt.config.Server.WriteTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.CORS.AllowedOrigins,
		AllowedMethods:   rt.config.CORS.AllowedMethods,
		AllowedHeaders:   rt.config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           rt.config.CORS.MaxAge,
	}))

	// Observability middleware (applied to all routes)
	if rt.config.Metrics.Enabled && rt.metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.metrics))
	}
	if rt.config.Tracing.Enabled {
		router.Use(observability.TracingMiddleware(rt.config.Tracing.ServiceName))
	}

	// Operational endpoints (public)
	router.Get("/health", handlers.Health)
	if rt.config.Metrics.Enabled && rt.metrics != nil {
		router.Handle(rt.config.Metrics.Path, promhttp.HandlerFor(
			rt.metrics.GetRegistry(),
			promhttp.HandlerOpts{},
		))
	}

	// Graph API. The trailing-slash forms mirror the published contract:
	// create and read use them, the list and node endpoints do not.
	router.Route("/api/graph", func(r chi.Router) {
		r.Use(middleware.CircuitBreaker(
			middleware.DefaultCircuitBreakerConfig("graph-api"), rt.logger))

		graphHandler := handlers.NewGraphHandler(rt.service, rt.logger)
		r.Post("/", graphHandler.CreateGraph)
		r.Get("/{graphID}/", graphHandler.GetGraph)
		r.Get("/{graphID}/adjacency_list", graphHandler.GetAdjacencyList)
		r.Get("/{graphID}/reverse_adjacency_list", graphHandler.GetReverseAdjacencyList)
		r.Delete("/{graphID}/node/{nodeName}", graphHandler.DeleteNode)
	})

	return router
}
