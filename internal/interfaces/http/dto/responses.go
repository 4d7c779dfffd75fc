package dto

import "dagstore-backend/internal/domain/dag"

// GraphCreateResponse carries the identifier of a newly created graph.
type GraphCreateResponse struct {
	ID int64 `json:"id"`
}

// NodeRead is one node in a graph response.
type NodeRead struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// EdgeRead is one edge in a graph response. Source and Target are node
// names, not identifiers.
type EdgeRead struct {
	Source string `json:"source"`
	Target string `json:"target"`
	ID     int64  `json:"id"`
}

// GraphRead is the full representation of a stored graph.
type GraphRead struct {
	ID    int64      `json:"id"`
	Nodes []NodeRead `json:"nodes"`
	Edges []EdgeRead `json:"edges"`
}

// AdjacencyListResponse wraps an adjacency or reverse adjacency list.
type AdjacencyListResponse struct {
	AdjacencyList map[string][]string `json:"adjacency_list"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// GraphReadFromDomain converts a domain graph into its response shape.
func GraphReadFromDomain(g *dag.Graph) GraphRead {
	nodes := g.Nodes()
	edges := g.Edges()

	out := GraphRead{
		ID:    g.ID(),
		Nodes: make([]NodeRead, len(nodes)),
		Edges: make([]EdgeRead, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = NodeRead{Name: n.Name, ID: n.ID}
	}
	for i, e := range edges {
		out.Edges[i] = EdgeRead{Source: e.Source, Target: e.Target, ID: e.ID}
	}
	return out
}
