package graph

// Simple is an in-memory undirected graph that remembers insertion order.
// Nodes() yields nodes in the order they were first seen and Edges() yields
// edges in the order they were added. Adding an existing node or edge is a
// no-op. Self-loops are stored as given; the counter rejects them.
//
// Simple is not safe for concurrent mutation.
type Simple struct {
	nodes []any
	index map[string]int
	edges []Edge
	seen  map[[2]string]struct{}
}

// NewSimple creates an empty graph.
func NewSimple() *Simple {
	return &Simple{
		index: make(map[string]int),
		seen:  make(map[[2]string]struct{}),
	}
}

// FromEdges builds a graph from an edge list, adding endpoints as they appear.
func FromEdges(edges ...Edge) *Simple {
	g := NewSimple()
	for _, e := range edges {
		g.AddEdge(e.U, e.V)
	}
	return g
}

// AddNode inserts node if no node with the same key exists.
func (g *Simple) AddNode(node any) {
	k := Key(node)
	if _, ok := g.index[k]; ok {
		return
	}
	g.index[k] = len(g.nodes)
	g.nodes = append(g.nodes, node)
}

// AddEdge inserts the undirected edge u-v, adding missing endpoints first.
func (g *Simple) AddEdge(u, v any) {
	g.AddNode(u)
	g.AddNode(v)

	k := EdgeKey(u, v)
	if _, ok := g.seen[k]; ok {
		return
	}
	g.seen[k] = struct{}{}
	g.edges = append(g.edges, Edge{U: u, V: v})
}

// HasNode reports whether a node with the same key exists.
func (g *Simple) HasNode(node any) bool {
	_, ok := g.index[Key(node)]
	return ok
}

// HasEdge reports whether u-v is an edge, in either orientation.
func (g *Simple) HasEdge(u, v any) bool {
	_, ok := g.seen[EdgeKey(u, v)]
	return ok
}

// Nodes returns a copy of the node sequence in insertion order.
func (g *Simple) Nodes() []any {
	out := make([]any, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge sequence in insertion order.
func (g *Simple) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NumberOfNodes returns the node count.
func (g *Simple) NumberOfNodes() int { return len(g.nodes) }

// NumberOfEdges returns the edge count.
func (g *Simple) NumberOfEdges() int { return len(g.edges) }
