// Package graph provides the business operations of the DAG store:
// creating validated graphs, reading them back and deleting nodes.
package graph

import (
	"context"

	"go.uber.org/zap"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/repository"
	domainerrors "dagstore-backend/pkg/errors"
)

// Service defines the graph business operations.
type Service interface {
	// CreateGraph validates and persists a new graph, returning its
	// identifier.
	CreateGraph(ctx context.Context, nodeNames []string, edgeSpecs []dag.EdgeSpec) (int64, error)

	// GetGraph loads a stored graph.
	GetGraph(ctx context.Context, graphID int64) (*dag.Graph, error)

	// GetAdjacencyList returns the outgoing neighbours of every node.
	GetAdjacencyList(ctx context.Context, graphID int64) (map[string][]string, error)

	// GetReverseAdjacencyList returns the incoming neighbours of every
	// node.
	GetReverseAdjacencyList(ctx context.Context, graphID int64) (map[string][]string, error)

	// DeleteNode removes a node and its incident edges from a graph.
	DeleteNode(ctx context.Context, graphID int64, name string) error
}

type service struct {
	repo    repository.GraphRepository
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewService creates the graph service.
func NewService(repo repository.GraphRepository, metrics *observability.Collector, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateGraph builds the aggregate, which runs the full structural
// validation, then persists it in one transaction.
func (s *service) CreateGraph(ctx context.Context, nodeNames []string, edgeSpecs []dag.EdgeSpec) (int64, error) {
	g, err := dag.BuildGraph(nodeNames, edgeSpecs)
	if err != nil {
		if derr, ok := domainerrors.GetDomainError(err); ok {
			s.metrics.RecordValidationFailure(derr.Code)
		}
		s.logger.Debug("graph rejected",
			zap.Int("node_count", len(nodeNames)),
			zap.Int("edge_count", len(edgeSpecs)),
			zap.Error(err),
		)
		return 0, err
	}

	id, err := s.repo.Save(ctx, g)
	if err != nil {
		return 0, err
	}

	s.metrics.RecordGraphCreated(g.NodeCount(), g.EdgeCount())
	s.logger.Info("graph created",
		zap.Int64("graph_id", id),
		zap.Int("node_count", g.NodeCount()),
		zap.Int("edge_count", g.EdgeCount()),
	)

	return id, nil
}

// GetGraph loads a stored graph.
func (s *service) GetGraph(ctx context.Context, graphID int64) (*dag.Graph, error) {
	return s.repo.FindByID(ctx, graphID)
}

// GetAdjacencyList loads a graph and derives its adjacency list.
func (s *service) GetAdjacencyList(ctx context.Context, graphID int64) (map[string][]string, error) {
	g, err := s.repo.FindByID(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return g.Adjacency(), nil
}

// GetReverseAdjacencyList loads a graph and derives its reverse
// adjacency list.
func (s *service) GetReverseAdjacencyList(ctx context.Context, graphID int64) (map[string][]string, error) {
	g, err := s.repo.FindByID(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return g.ReverseAdjacency(), nil
}

// DeleteNode removes a node and its incident edges. A missing graph and
// a missing node are distinct failures, so the graph is checked first;
// the store cascades the edges.
func (s *service) DeleteNode(ctx context.Context, graphID int64, name string) error {
	exists, err := s.repo.Exists(ctx, graphID)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.NewGraphNotFound(graphID)
	}

	if err := s.repo.DeleteNode(ctx, graphID, name); err != nil {
		return err
	}

	s.metrics.RecordNodeDeleted()
	s.logger.Info("node deleted",
		zap.Int64("graph_id", graphID),
		zap.String("node", name),
	)

	return nil
}
