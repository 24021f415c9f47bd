// Package reindex translates arbitrary node identities into the dense,
// zero-based indices the counting engines work on.
//
// The mapping is a pure function of the ordering it is built from: position i
// of the ordering becomes index i. Row i of a node-mode count matrix therefore
// belongs to the i-th node of the ordering, and row i of an edge-mode matrix to
// the i-th edge of the edge sequence that was reindexed.
package reindex

import (
	"fmt"

	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
)

// IndexMap is a bijection between canonical node keys and [0, Len()).
type IndexMap struct {
	nodes []any
	index map[string]int
}

// BuildIndexMap assigns successive indices to order, starting at zero.
// A key that appears twice is an ErrInvalidOrder.
func BuildIndexMap(order []any) (*IndexMap, error) {
	m := &IndexMap{
		nodes: make([]any, len(order)),
		index: make(map[string]int, len(order)),
	}
	for i, node := range order {
		k := graph.Key(node)
		if first, dup := m.index[k]; dup {
			return nil, invalidOrder("index", k, i, fmt.Sprintf("duplicate of position %d", first))
		}
		m.index[k] = i
		m.nodes[i] = node
	}
	return m, nil
}

// Len returns the number of indexed nodes.
func (m *IndexMap) Len() int { return len(m.nodes) }

// Index returns the index of node, matched by canonical key.
func (m *IndexMap) Index(node any) (int, bool) {
	i, ok := m.index[graph.Key(node)]
	return i, ok
}

// Node returns the identity at index i as it appeared in the ordering.
func (m *IndexMap) Node(i int) any { return m.nodes[i] }

// Nodes returns the ordering the map was built from.
func (m *IndexMap) Nodes() []any {
	out := make([]any, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// Edges rewrites edges into index pairs, preserving sequence order and the
// orientation of each pair.
func (m *IndexMap) Edges(edges []graph.Edge) ([][2]int, error) {
	out := make([][2]int, len(edges))
	for pos, e := range edges {
		u, ok := m.Index(e.U)
		if !ok {
			return nil, unknownNode("edges", graph.Key(e.U), pos)
		}
		v, ok := m.Index(e.V)
		if !ok {
			return nil, unknownNode("edges", graph.Key(e.V), pos)
		}
		out[pos] = [2]int{u, v}
	}
	return out, nil
}

// Reindex maps g onto dense indices.
//
// nodeOrder, when non-nil, decides index assignment; otherwise g.Nodes() does.
// edgeOrder, when non-nil, decides the sequence of the returned edge list;
// otherwise g.Edges() does. Explicit orderings must enumerate the graph's nodes
// (edges) exactly once.
func Reindex(g graph.Graph, nodeOrder []any, edgeOrder []graph.Edge) ([][2]int, *IndexMap, error) {
	order := nodeOrder
	if order == nil {
		order = g.Nodes()
	} else if len(order) != g.NumberOfNodes() {
		return nil, nil, invalidOrder("index", "", -1,
			fmt.Sprintf("node order has %d entries, graph has %d nodes", len(order), g.NumberOfNodes()))
	}

	m, err := BuildIndexMap(order)
	if err != nil {
		return nil, nil, err
	}
	if nodeOrder != nil {
		for _, node := range g.Nodes() {
			if _, ok := m.Index(node); !ok {
				return nil, nil, invalidOrder("index", graph.Key(node), -1, "graph node missing from node order")
			}
		}
	}

	edges := edgeOrder
	if edges == nil {
		edges = g.Edges()
	} else if err := checkEdgeOrder(g, edgeOrder); err != nil {
		return nil, nil, err
	}

	pairs, err := m.Edges(edges)
	if err != nil {
		return nil, nil, err
	}
	return pairs, m, nil
}

// checkEdgeOrder verifies that order is a permutation of g.Edges().
func checkEdgeOrder(g graph.Graph, order []graph.Edge) error {
	if len(order) != g.NumberOfEdges() {
		return invalidOrder("edges", "", -1,
			fmt.Sprintf("edge order has %d entries, graph has %d edges", len(order), g.NumberOfEdges()))
	}

	remaining := make(map[[2]string]int, len(order))
	for _, e := range g.Edges() {
		remaining[e.Key()]++
	}
	for pos, e := range order {
		k := e.Key()
		if remaining[k] == 0 {
			return invalidOrder("edges", e.String(), pos, "not an edge of the graph, or listed twice")
		}
		remaining[k]--
	}
	return nil
}
