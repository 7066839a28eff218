package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [New] when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [New] when the same ID appears twice.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Edge is a dependency edge: From depends on To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed dependency graph over a fixed, ordered set of nodes.
//
// Nodes are addressed by their position in the slice passed to [New]; that
// position is also the traversal root order. Edges to a node are kept in
// insertion order, which is the declared dependency order.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation.
type Graph struct {
	ids   []string
	index map[string]int
	deps  [][]int // node -> dependency indices, declared order
}

// New creates a graph whose nodes are ids, in order.
// Returns ErrInvalidNodeID for an empty ID and ErrDuplicateNodeID for a
// repeated one.
func New(ids []string) (*Graph, error) {
	g := &Graph{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]int, len(ids)),
		deps:  make([][]int, len(ids)),
	}
	for i, id := range ids {
		if id == "" {
			return nil, ErrInvalidNodeID
		}
		if _, exists := g.index[id]; exists {
			return nil, ErrDuplicateNodeID
		}
		g.index[id] = i
		g.ids = append(g.ids, id)
	}
	return g, nil
}

// AddEdge records that from depends on to. Adding an edge that already
// exists is a no-op, so the dependency list stays a set in declared order.
func (g *Graph) AddEdge(from, to string) error {
	f, ok := g.index[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	t, ok := g.index[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	if !slices.Contains(g.deps[f], t) {
		g.deps[f] = append(g.deps[f], t)
	}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// ID returns the ID of the node at index i.
func (g *Graph) ID(i int) string { return g.ids[i] }

// Index returns the index of the node with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Nodes returns the node IDs in graph order. The returned slice is a copy.
func (g *Graph) Nodes() []string { return slices.Clone(g.ids) }

// Dependencies returns the dependency indices of node i in declared order.
// The returned slice must not be modified.
func (g *Graph) Dependencies(i int) []int { return g.deps[i] }

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, d := range g.deps {
		n += len(d)
	}
	return n
}

// Edges returns every edge, grouped by source in graph order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for i, d := range g.deps {
		for _, j := range d {
			edges = append(edges, Edge{From: g.ids[i], To: g.ids[j]})
		}
	}
	return edges
}

// Dependents returns the IDs of nodes that depend directly on id, in graph order.
func (g *Graph) Dependents(id string) []string {
	t, ok := g.index[id]
	if !ok {
		return nil
	}
	var out []string
	for i, d := range g.deps {
		if slices.Contains(d, t) {
			out = append(out, g.ids[i])
		}
	}
	return out
}
