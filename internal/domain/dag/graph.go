// Package dag implements the directed-acyclic-graph aggregate: build-time
// validation, adjacency derivation, cycle detection and node removal.
package dag

import (
	"time"

	domainerrors "dagstore-backend/pkg/errors"
)

// Node is a named vertex owned by exactly one graph. The ID is zero until
// the storage layer assigns one.
type Node struct {
	ID   int64
	Name string
}

// Edge is a directed connection between two nodes of the same graph,
// referenced by name. The ID is zero until persisted.
type Edge struct {
	ID     int64
	Source string
	Target string
}

// EdgeSpec is a proposed edge in a graph creation request.
type EdgeSpec struct {
	Source string
	Target string
}

// Graph is the aggregate root. It owns its nodes and edges and preserves
// their declaration order, which adjacency derivation depends on.
type Graph struct {
	id        int64
	createdAt time.Time
	nodes     []*Node
	edges     []*Edge
	nodeIndex map[string]*Node
	edgeKeys  map[string]struct{}
}

// BuildGraph validates a proposed node/edge set and assembles the aggregate.
// Checks run in a fixed order and the first violation wins:
//
//	1. Empty node set.
//	2. Per node, in declaration order: duplicate name.
//	3. Per edge, in declaration order: unknown source, unknown target,
//	   self-loop, duplicate pair.
//	4. Whole edge set: cycle detection (skipped when there are no edges).
//
// On failure nothing is returned; the caller persists nothing.
func BuildGraph(nodeNames []string, edgeSpecs []EdgeSpec) (*Graph, error) {
	if len(nodeNames) == 0 {
		return nil, domainerrors.ErrEmptyGraph
	}

	g := newGraph(0, time.Now().UTC())

	for _, name := range nodeNames {
		if err := g.addNode(&Node{Name: name}); err != nil {
			return nil, err
		}
	}

	for _, spec := range edgeSpecs {
		if err := g.addEdge(&Edge{Source: spec.Source, Target: spec.Target}); err != nil {
			return nil, err
		}
	}

	if len(g.edges) > 0 && HasCycle(g.Adjacency()) {
		return nil, domainerrors.ErrCyclicGraph
	}

	return g, nil
}

// ReconstructGraph rebuilds an aggregate from stored rows. Structural checks
// still apply (a corrupted store must not produce an inconsistent aggregate)
// but acyclicity is not re-verified: it held at creation and deletions cannot
// introduce cycles.
func ReconstructGraph(id int64, createdAt time.Time, nodes []Node, edges []Edge) (*Graph, error) {
	g := newGraph(id, createdAt)

	for i := range nodes {
		n := nodes[i]
		if err := g.addNode(&n); err != nil {
			return nil, err
		}
	}

	for i := range edges {
		e := edges[i]
		if err := g.addEdge(&e); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// ID returns the storage-assigned identifier, zero for an unpersisted graph.
func (g *Graph) ID() int64 {
	return g.id
}

// CreatedAt returns when the graph was created.
func (g *Graph) CreatedAt() time.Time {
	return g.createdAt
}

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = *n
	}
	return nodes
}

// Edges returns the edges in declaration order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = *e
	}
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasNode reports whether a node with the given name exists.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.nodeIndex[name]
	return exists
}

// Adjacency maps every node name to its successors, following edges in
// their declared direction. Nodes without outgoing edges map to an empty
// slice; successor order follows edge declaration order.
func (g *Graph) Adjacency() map[string][]string {
	adjacency := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		adjacency[node.Name] = []string{}
	}
	for _, edge := range g.edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}
	return adjacency
}

// ReverseAdjacency maps every node name to its predecessors. This is an
// independent pass over the edge set with source and target roles swapped,
// not an inversion of Adjacency.
func (g *Graph) ReverseAdjacency() map[string][]string {
	reverse := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		reverse[node.Name] = []string{}
	}
	for _, edge := range g.edges {
		reverse[edge.Target] = append(reverse[edge.Target], edge.Source)
	}
	return reverse
}

// RemoveNode deletes the named node and every edge where it is source or
// target. Other nodes and edges keep their order. Acyclicity is not
// re-checked: removing edges cannot create a cycle.
func (g *Graph) RemoveNode(name string) error {
	if _, exists := g.nodeIndex[name]; !exists {
		return domainerrors.NewNodeNotFound(g.id, name)
	}

	remaining := make([]*Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		if edge.Source == name || edge.Target == name {
			delete(g.edgeKeys, edgeKey(edge.Source, edge.Target))
			continue
		}
		remaining = append(remaining, edge)
	}
	g.edges = remaining

	delete(g.nodeIndex, name)
	for i, node := range g.nodes {
		if node.Name == name {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}

	return nil
}

// Private helper methods

func newGraph(id int64, createdAt time.Time) *Graph {
	return &Graph{
		id:        id,
		createdAt: createdAt,
		nodes:     []*Node{},
		edges:     []*Edge{},
		nodeIndex: make(map[string]*Node),
		edgeKeys:  make(map[string]struct{}),
	}
}

func (g *Graph) addNode(node *Node) error {
	if _, exists := g.nodeIndex[node.Name]; exists {
		return domainerrors.NewDuplicateNode(node.Name)
	}
	g.nodes = append(g.nodes, node)
	g.nodeIndex[node.Name] = node
	return nil
}

func (g *Graph) addEdge(edge *Edge) error {
	if _, exists := g.nodeIndex[edge.Source]; !exists {
		return domainerrors.NewUnknownSourceNode(edge.Source)
	}
	if _, exists := g.nodeIndex[edge.Target]; !exists {
		return domainerrors.NewUnknownTargetNode(edge.Target)
	}
	if edge.Source == edge.Target {
		return domainerrors.NewSelfLoop(edge.Source, edge.Target)
	}

	key := edgeKey(edge.Source, edge.Target)
	if _, exists := g.edgeKeys[key]; exists {
		return domainerrors.NewDuplicateEdge(edge.Source, edge.Target)
	}

	g.edgeKeys[key] = struct{}{}
	g.edges = append(g.edges, edge)
	return nil
}

func edgeKey(source, target string) string {
	return source + "->" + target
}
