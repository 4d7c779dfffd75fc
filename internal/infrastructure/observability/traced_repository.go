package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/repository"
)

// TraceRepository wraps a graph repository so every persistence call
// produces a span.
func TraceRepository(repo repository.GraphRepository, tracer trace.Tracer) repository.GraphRepository {
	return &tracedGraphRepository{inner: repo, tracer: tracer}
}

type tracedGraphRepository struct {
	inner  repository.GraphRepository
	tracer trace.Tracer
}

var _ repository.GraphRepository = (*tracedGraphRepository)(nil)

func (r *tracedGraphRepository) Save(ctx context.Context, graph *dag.Graph) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Save",
		trace.WithAttributes(
			attribute.Int("graph.node_count", graph.NodeCount()),
			attribute.Int("graph.edge_count", graph.EdgeCount()),
		),
	)
	defer span.End()

	id, err := r.inner.Save(ctx, graph)
	if err != nil {
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.Int64("graph.id", id))
	}

	return id, err
}

func (r *tracedGraphRepository) FindByID(ctx context.Context, graphID int64) (*dag.Graph, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int64("graph.id", graphID),
		),
	)
	defer span.End()

	graph, err := r.inner.FindByID(ctx, graphID)
	if err != nil {
		span.RecordError(err)
	}

	return graph, err
}

func (r *tracedGraphRepository) Exists(ctx context.Context, graphID int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Exists",
		trace.WithAttributes(
			attribute.Int64("graph.id", graphID),
		),
	)
	defer span.End()

	exists, err := r.inner.Exists(ctx, graphID)
	if err != nil {
		span.RecordError(err)
	}

	return exists, err
}

func (r *tracedGraphRepository) DeleteNode(ctx context.Context, graphID int64, name string) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteNode",
		trace.WithAttributes(
			attribute.Int64("graph.id", graphID),
			attribute.String("node.name", name),
		),
	)
	defer span.End()

	err := r.inner.DeleteNode(ctx, graphID, name)
	if err != nil {
		span.RecordError(err)
	}

	return err
}
