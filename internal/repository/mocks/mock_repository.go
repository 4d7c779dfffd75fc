// Package mocks provides in-memory repository implementations for
// testing services and handlers without a real database.
package mocks

import (
	"context"
	"sync"
	"time"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/repository"
	domainerrors "dagstore-backend/pkg/errors"
)

// MockGraphRepository is an in-memory GraphRepository. Identifiers are
// assigned the way the real store does, monotonically from 1.
type MockGraphRepository struct {
	mu sync.RWMutex

	graphs  map[int64]*dag.Graph
	graphID int64
	nodeID  int64
	edgeID  int64

	saveCalls int

	// shouldFailOn forces specific methods to fail.
	shouldFailOn map[string]error
}

var _ repository.GraphRepository = (*MockGraphRepository)(nil)

// NewMockGraphRepository creates an empty mock repository.
func NewMockGraphRepository() *MockGraphRepository {
	return &MockGraphRepository{
		graphs:       make(map[int64]*dag.Graph),
		shouldFailOn: make(map[string]error),
	}
}

// SetError configures the mock to return an error from a method.
func (m *MockGraphRepository) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors.
func (m *MockGraphRepository) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn = make(map[string]error)
}

// SaveCalls reports how many times Save was invoked.
func (m *MockGraphRepository) SaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCalls
}

func (m *MockGraphRepository) checkError(method string) error {
	if err, exists := m.shouldFailOn[method]; exists {
		return err
	}
	return nil
}

// Save assigns identifiers and stores the graph.
func (m *MockGraphRepository) Save(ctx context.Context, graph *dag.Graph) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCalls++
	if err := m.checkError("Save"); err != nil {
		return 0, err
	}

	m.graphID++
	id := m.graphID

	nodes := graph.Nodes()
	for i := range nodes {
		m.nodeID++
		nodes[i].ID = m.nodeID
	}
	edges := graph.Edges()
	for i := range edges {
		m.edgeID++
		edges[i].ID = m.edgeID
	}

	stored, err := dag.ReconstructGraph(id, time.Now().UTC(), nodes, edges)
	if err != nil {
		return 0, err
	}
	m.graphs[id] = stored

	return id, nil
}

// FindByID returns an independent copy of the stored graph so callers
// can mutate the aggregate without affecting the store.
func (m *MockGraphRepository) FindByID(ctx context.Context, graphID int64) (*dag.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkError("FindByID"); err != nil {
		return nil, err
	}

	stored, ok := m.graphs[graphID]
	if !ok {
		return nil, domainerrors.NewGraphNotFound(graphID)
	}

	return dag.ReconstructGraph(stored.ID(), stored.CreatedAt(), stored.Nodes(), stored.Edges())
}

// Exists reports whether a graph was stored under the given id.
func (m *MockGraphRepository) Exists(ctx context.Context, graphID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkError("Exists"); err != nil {
		return false, err
	}

	_, ok := m.graphs[graphID]
	return ok, nil
}

// DeleteNode removes a node and its incident edges from the stored
// graph.
func (m *MockGraphRepository) DeleteNode(ctx context.Context, graphID int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkError("DeleteNode"); err != nil {
		return err
	}

	stored, ok := m.graphs[graphID]
	if !ok {
		return domainerrors.NewGraphNotFound(graphID)
	}

	return stored.RemoveNode(name)
}
