package graph

import (
	"sort"

	gonumgraph "gonum.org/v1/gonum/graph"
)

// Gonum adapts a gonum undirected graph to the Graph interface.
//
// gonum iterates nodes and edges in map order, so the adapter imposes its own
// native order: nodes ascending by ID, edges ascending by (lower ID, higher ID).
// Node identities are the int64 node IDs. The snapshot is taken once, when the
// adapter is created; later mutations of the wrapped graph are not observed.
type Gonum struct {
	nodes []any
	edges []Edge
}

// FromGonum snapshots g.
func FromGonum(g gonumgraph.Undirected) *Gonum {
	ids := make([]int64, 0, g.Nodes().Len())
	for it := g.Nodes(); it.Next(); {
		ids = append(ids, it.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := &Gonum{nodes: make([]any, len(ids))}
	for i, id := range ids {
		out.nodes[i] = id
	}

	var nbrs []int64
	for _, u := range ids {
		nbrs = nbrs[:0]
		for it := g.From(u); it.Next(); {
			if v := it.Node().ID(); v >= u {
				nbrs = append(nbrs, v)
			}
		}
		sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
		for _, v := range nbrs {
			out.edges = append(out.edges, Edge{U: u, V: v})
		}
	}
	return out
}

func (g *Gonum) Nodes() []any {
	out := make([]any, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Gonum) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Gonum) NumberOfNodes() int { return len(g.nodes) }

func (g *Gonum) NumberOfEdges() int { return len(g.edges) }
