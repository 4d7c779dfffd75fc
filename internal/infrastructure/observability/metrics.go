// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the DAG store service.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Collector is a process-wide singleton so repeated construction in
	// tests does not trip duplicate registration.
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	GraphsCreated      prometheus.Counter
	NodesCreated       prometheus.Counter
	EdgesCreated       prometheus.Counter
	NodesDeleted       prometheus.Counter
	ValidationFailures *prometheus.CounterVec

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec
}

// NewCollector creates the metrics collector with the given namespace,
// returning the existing instance if one was already created.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	graphsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_created_total",
			Help:      "Total number of graphs created",
		},
	)

	nodesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of nodes persisted across all graphs",
		},
	)

	edgesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges persisted across all graphs",
		},
	)

	nodesDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "Total number of nodes deleted",
		},
	)

	validationFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_validation_failures_total",
			Help:      "Total number of rejected graph submissions by reason",
		},
		[]string{"reason"},
	)

	dbOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_operations_total",
			Help:      "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	dbDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Database operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		graphsCreated,
		nodesCreated,
		edgesCreated,
		nodesDeleted,
		validationFailures,
		dbOperations,
		dbDuration,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		GraphsCreated:      graphsCreated,
		NodesCreated:       nodesCreated,
		EdgesCreated:       edgesCreated,
		NodesDeleted:       nodesDeleted,
		ValidationFailures: validationFailures,
		DBOperations:       dbOperations,
		DBDuration:         dbDuration,
	}

	return globalCollector
}

// ResetForTesting discards the singleton so tests can build a fresh
// collector.
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// RecordGraphCreated records a successful graph creation and its size.
func (c *Collector) RecordGraphCreated(nodeCount, edgeCount int) {
	c.GraphsCreated.Inc()
	c.NodesCreated.Add(float64(nodeCount))
	c.EdgesCreated.Add(float64(edgeCount))
}

// RecordValidationFailure records a rejected graph submission. The
// reason is the error code, a small fixed set.
func (c *Collector) RecordValidationFailure(reason string) {
	c.ValidationFailures.WithLabelValues(reason).Inc()
}

// RecordNodeDeleted records a successful node deletion.
func (c *Collector) RecordNodeDeleted() {
	c.NodesDeleted.Inc()
}

// ObserveDB records one database operation with its outcome and
// duration.
func (c *Collector) ObserveDB(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.DBOperations.WithLabelValues(operation, status).Inc()
	c.DBDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// GetRegistry returns the Prometheus registry backing this collector.
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
