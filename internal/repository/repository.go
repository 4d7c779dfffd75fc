// Package repository defines the data access interfaces the service layer
// depends on. Concrete implementations live under
// internal/infrastructure/persistence and must map storage failures to the
// domain error taxonomy.
package repository

import (
	"context"

	"dagstore-backend/internal/domain/dag"
)

// GraphRepository persists graph aggregates.
type GraphRepository interface {
	// Save stores the graph with all its nodes and edges as a single
	// transactional unit and returns the storage-assigned graph id. On any
	// failure nothing is persisted.
	Save(ctx context.Context, graph *dag.Graph) (int64, error)

	// FindByID reconstructs the aggregate from storage, with nodes and
	// edges in declaration order. Returns ErrGraphNotFound when no graph
	// has this id.
	FindByID(ctx context.Context, graphID int64) (*dag.Graph, error)

	// Exists reports whether a graph with this id is stored, without
	// loading it.
	Exists(ctx context.Context, graphID int64) (bool, error)

	// DeleteNode removes one node and, by cascade, every edge where it is
	// source or target. Returns ErrNodeNotFound when the graph holds no
	// node with this name.
	DeleteNode(ctx context.Context, graphID int64, name string) error
}
