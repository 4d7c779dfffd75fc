package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/infrastructure/observability"
	"dagstore-backend/internal/repository/mocks"
	domainerrors "dagstore-backend/pkg/errors"
)

func newTestService(repo *mocks.MockGraphRepository) Service {
	return NewService(repo, observability.NewCollector("dagstore"), zap.NewNop())
}

func TestCreateGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulCreation", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		id, err := svc.CreateGraph(ctx,
			[]string{"a", "b", "c", "d"},
			[]dag.EdgeSpec{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "d"}},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, 1, repo.SaveCalls())

		stored, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 4, stored.NodeCount())
		assert.Equal(t, 3, stored.EdgeCount())
	})

	t.Run("ValidationFailureDoesNotTouchStore", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		_, err := svc.CreateGraph(ctx,
			[]string{"a", "b", "c"},
			[]dag.EdgeSpec{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"}},
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrCyclicGraph)
		assert.True(t, domainerrors.IsValidation(err))
		assert.Equal(t, 0, repo.SaveCalls())
	})

	t.Run("EmptyGraphRejected", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		_, err := svc.CreateGraph(ctx, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrEmptyGraph)
		assert.Equal(t, 0, repo.SaveCalls())
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		repo.SetError("Save", domainerrors.NewInternal("database error", nil))
		svc := newTestService(repo)

		_, err := svc.CreateGraph(ctx, []string{"a"}, nil)
		require.Error(t, err)
		assert.True(t, domainerrors.IsInternal(err))
	})
}

func TestGetGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("GraphExists", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		id, err := svc.CreateGraph(ctx, []string{"a", "b"}, []dag.EdgeSpec{{Source: "a", Target: "b"}})
		require.NoError(t, err)

		g, err := svc.GetGraph(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("GraphNotFound", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		_, err := svc.GetGraph(ctx, 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrGraphNotFound)
		assert.True(t, domainerrors.IsNotFound(err))
	})
}

func TestGetAdjacencyLists(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewMockGraphRepository()
	svc := newTestService(repo)

	id, err := svc.CreateGraph(ctx,
		[]string{"a", "b", "c", "d"},
		[]dag.EdgeSpec{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}, {Source: "b", Target: "d"}},
	)
	require.NoError(t, err)

	t.Run("AdjacencyList", func(t *testing.T) {
		adj, err := svc.GetAdjacencyList(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"a": {"b", "c"},
			"b": {"d"},
			"c": {},
			"d": {},
		}, adj)
	})

	t.Run("ReverseAdjacencyList", func(t *testing.T) {
		radj, err := svc.GetReverseAdjacencyList(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"a": {},
			"b": {"a"},
			"c": {"a"},
			"d": {"b"},
		}, radj)
	})

	t.Run("GraphNotFound", func(t *testing.T) {
		_, err := svc.GetAdjacencyList(ctx, 99)
		assert.ErrorIs(t, err, domainerrors.ErrGraphNotFound)

		_, err = svc.GetReverseAdjacencyList(ctx, 99)
		assert.ErrorIs(t, err, domainerrors.ErrGraphNotFound)
	})
}

func TestDeleteNode(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesNodeAndIncidentEdges", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		id, err := svc.CreateGraph(ctx,
			[]string{"a", "b", "c", "d"},
			[]dag.EdgeSpec{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "d"}},
		)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteNode(ctx, id, "b"))

		g, err := svc.GetGraph(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, g.NodeCount())
		assert.False(t, g.HasNode("b"))

		edges := g.Edges()
		require.Len(t, edges, 1)
		assert.Equal(t, "c", edges[0].Source)
		assert.Equal(t, "d", edges[0].Target)
	})

	t.Run("NodeNotFound", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		id, err := svc.CreateGraph(ctx, []string{"a"}, nil)
		require.NoError(t, err)

		err = svc.DeleteNode(ctx, id, "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrNodeNotFound)

		derr, ok := domainerrors.GetDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "Node 'x' not found in graph 1", derr.Message)
	})

	t.Run("GraphNotFound", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		svc := newTestService(repo)

		err := svc.DeleteNode(ctx, 42, "a")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrGraphNotFound)
	})

	t.Run("ExistenceCheckFailure", func(t *testing.T) {
		repo := mocks.NewMockGraphRepository()
		repo.SetError("Exists", domainerrors.NewInternal("database error", nil))
		svc := newTestService(repo)

		err := svc.DeleteNode(ctx, 1, "a")
		require.Error(t, err)
		assert.True(t, domainerrors.IsInternal(err))
	})
}
