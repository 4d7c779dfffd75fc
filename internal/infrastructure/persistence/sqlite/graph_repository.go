package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"dagstore-backend/internal/domain/dag"
	"dagstore-backend/internal/repository"
	domainerrors "dagstore-backend/pkg/errors"
)

// GraphRepository is the SQLite implementation of repository.GraphRepository.
type GraphRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ repository.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a repository backed by the given store.
func NewGraphRepository(store *Store, logger *zap.Logger) *GraphRepository {
	return &GraphRepository{db: store.DB(), logger: logger}
}

// Save stores the aggregate as one transactional unit: the graph row, then
// every node, then every edge. The explicit transaction commits only after
// the last insert succeeds; any failure rolls the whole graph back.
func (r *GraphRepository) Save(ctx context.Context, graph *dag.Graph) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	graphID, err := insertGraph(ctx, tx, graph.CreatedAt())
	if err != nil {
		return 0, err
	}

	nodeIDs, err := insertNodes(ctx, tx, graphID, graph.Nodes())
	if err != nil {
		return 0, err
	}

	if err := insertEdges(ctx, tx, graphID, nodeIDs, graph.Edges()); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, domainerrors.NewInternal("failed to commit graph", err)
	}

	r.logger.Debug("graph saved",
		zap.Int64("graph_id", graphID),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", graph.EdgeCount()),
	)

	return graphID, nil
}

// FindByID reconstructs the aggregate from its stored rows. Nodes and edges
// come back ordered by id, which preserves declaration order.
func (r *GraphRepository) FindByID(ctx context.Context, graphID int64) (*dag.Graph, error) {
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM graphs WHERE id = ?`, graphID,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NewGraphNotFound(graphID)
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to query graph", err)
	}

	nodes, nameByID, err := r.queryNodes(ctx, graphID)
	if err != nil {
		return nil, err
	}

	edges, err := r.queryEdges(ctx, graphID, nameByID)
	if err != nil {
		return nil, err
	}

	graph, err := dag.ReconstructGraph(graphID, createdAt, nodes, edges)
	if err != nil {
		return nil, domainerrors.NewInternal("stored graph is inconsistent", err)
	}

	return graph, nil
}

// Exists checks for the graph row without loading the aggregate.
func (r *GraphRepository) Exists(ctx context.Context, graphID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM graphs WHERE id = ?)`, graphID,
	).Scan(&exists)
	if err != nil {
		return false, domainerrors.NewInternal("failed to check graph existence", err)
	}
	return exists, nil
}

// DeleteNode removes one node; the foreign-key cascade takes the incident
// edges with it. Zero affected rows means the node was not there.
func (r *GraphRepository) DeleteNode(ctx context.Context, graphID int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM nodes WHERE graph_id = ? AND name = ?`, graphID, name,
	)
	if err != nil {
		return domainerrors.NewInternal("failed to delete node", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domainerrors.NewInternal("failed to read delete result", err)
	}
	if affected == 0 {
		return domainerrors.NewNodeNotFound(graphID, name)
	}

	r.logger.Debug("node deleted",
		zap.Int64("graph_id", graphID),
		zap.String("name", name),
	)

	return nil
}

func insertGraph(ctx context.Context, tx *sql.Tx, createdAt time.Time) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO graphs (created_at) VALUES (?)`, createdAt,
	)
	if err != nil {
		return 0, domainerrors.NewInternal("failed to insert graph", err)
	}
	graphID, err := result.LastInsertId()
	if err != nil {
		return 0, domainerrors.NewInternal("failed to read graph id", err)
	}
	return graphID, nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, graphID int64, nodes []dag.Node) (map[string]int64, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (graph_id, name) VALUES (?, ?)`,
	)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to prepare node insert", err)
	}
	defer stmt.Close()

	nodeIDs := make(map[string]int64, len(nodes))
	for _, node := range nodes {
		result, err := stmt.ExecContext(ctx, graphID, node.Name)
		if err != nil {
			return nil, domainerrors.NewInternal("failed to insert node", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, domainerrors.NewInternal("failed to read node id", err)
		}
		nodeIDs[node.Name] = id
	}

	return nodeIDs, nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, graphID int64, nodeIDs map[string]int64, edges []dag.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (graph_id, source_id, target_id) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return domainerrors.NewInternal("failed to prepare edge insert", err)
	}
	defer stmt.Close()

	for _, edge := range edges {
		if _, err := stmt.ExecContext(ctx, graphID, nodeIDs[edge.Source], nodeIDs[edge.Target]); err != nil {
			return domainerrors.NewInternal("failed to insert edge", err)
		}
	}

	return nil
}

func (r *GraphRepository) queryNodes(ctx context.Context, graphID int64) ([]dag.Node, map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM nodes WHERE graph_id = ? ORDER BY id`, graphID,
	)
	if err != nil {
		return nil, nil, domainerrors.NewInternal("failed to query nodes", err)
	}
	defer rows.Close()

	var nodes []dag.Node
	nameByID := make(map[int64]string)
	for rows.Next() {
		var node dag.Node
		if err := rows.Scan(&node.ID, &node.Name); err != nil {
			return nil, nil, domainerrors.NewInternal("failed to scan node", err)
		}
		nodes = append(nodes, node)
		nameByID[node.ID] = node.Name
	}
	if err := rows.Err(); err != nil {
		return nil, nil, domainerrors.NewInternal("failed to iterate nodes", err)
	}

	return nodes, nameByID, nil
}

func (r *GraphRepository) queryEdges(ctx context.Context, graphID int64, nameByID map[int64]string) ([]dag.Edge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_id, target_id FROM edges WHERE graph_id = ? ORDER BY id`, graphID,
	)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to query edges", err)
	}
	defer rows.Close()

	var edges []dag.Edge
	for rows.Next() {
		var (
			edge               dag.Edge
			sourceID, targetID int64
		)
		if err := rows.Scan(&edge.ID, &sourceID, &targetID); err != nil {
			return nil, domainerrors.NewInternal("failed to scan edge", err)
		}

		sourceName, sourceOK := nameByID[sourceID]
		targetName, targetOK := nameByID[targetID]
		if !sourceOK || !targetOK {
			return nil, domainerrors.NewInternal("edge references a missing node row", nil)
		}
		edge.Source = sourceName
		edge.Target = targetName
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.NewInternal("failed to iterate edges", err)
	}

	return edges, nil
}
