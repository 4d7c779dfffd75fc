package observability

import (
	"context"
	"time"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/repository"
)

// MeterRepository wraps a graph repository so every persistence call is
// counted and timed.
func MeterRepository(repo repository.GraphRepository, collector *Collector) repository.GraphRepository {
	return &meteredGraphRepository{inner: repo, collector: collector}
}

type meteredGraphRepository struct {
	inner     repository.GraphRepository
	collector *Collector
}

var _ repository.GraphRepository = (*meteredGraphRepository)(nil)

func (r *meteredGraphRepository) Save(ctx context.Context, graph *dag.Graph) (int64, error) {
	start := time.Now()
	id, err := r.inner.Save(ctx, graph)
	r.collector.ObserveDB("save_graph", start, err)
	return id, err
}

func (r *meteredGraphRepository) FindByID(ctx context.Context, graphID int64) (*dag.Graph, error) {
	start := time.Now()
	graph, err := r.inner.FindByID(ctx, graphID)
	r.collector.ObserveDB("find_graph", start, err)
	return graph, err
}

func (r *meteredGraphRepository) Exists(ctx context.Context, graphID int64) (bool, error) {
	start := time.Now()
	exists, err := r.inner.Exists(ctx, graphID)
	r.collector.ObserveDB("exists_graph", start, err)
	return exists, err
}

func (r *meteredGraphRepository) DeleteNode(ctx context.Context, graphID int64, name string) error {
	start := time.Now()
	err := r.inner.DeleteNode(ctx, graphID, name)
	r.collector.ObserveDB("delete_node", start, err)
	return err
}
