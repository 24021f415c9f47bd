package graph

// Indexed is a graph whose nodes are the ints 0..n-1, as read from an index
// edge list. Edges are kept exactly as given, including repeats and
// self-loops, so that the counter sees and rejects them.
type Indexed struct {
	n     int
	edges []Edge
}

// FromIndexEdges wraps an index edge list over n nodes.
func FromIndexEdges(n int, pairs [][2]int) *Indexed {
	g := &Indexed{n: n, edges: make([]Edge, len(pairs))}
	for i, p := range pairs {
		g.edges[i] = Edge{U: p[0], V: p[1]}
	}
	return g
}

func (g *Indexed) Nodes() []any {
	out := make([]any, g.n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (g *Indexed) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Indexed) NumberOfNodes() int { return g.n }

func (g *Indexed) NumberOfEdges() int { return len(g.edges) }
