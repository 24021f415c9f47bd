// Package graph defines the graph collaborator consumed by the orbit counter
// and its implementations: an insertion-ordered in-memory graph, a wrapper for
// index edge lists and an adapter over gonum undirected graphs.
package graph

import "fmt"

// Graph is the read-only view the counter needs from a simple undirected graph.
//
// Nodes and Edges must return the same sequence on every call; that sequence
// is the graph's native ordering and decides row order when the caller does
// not supply an explicit one.
type Graph interface {
	Nodes() []any
	Edges() []Edge
	NumberOfNodes() int
	NumberOfEdges() int
}

// Edge is an unordered pair of node identities.
type Edge struct {
	U any
	V any
}

// Key returns the canonical representation of a node identity. Two identities
// with the same key are the same node, whatever their Go types.
func Key(node any) string {
	switch v := node.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// EdgeKey returns the canonical key of an unordered edge: the endpoint keys
// in ascending order.
func EdgeKey(u, v any) [2]string {
	ku, kv := Key(u), Key(v)
	if kv < ku {
		ku, kv = kv, ku
	}
	return [2]string{ku, kv}
}

// Key returns the canonical key of the edge.
func (e Edge) Key() [2]string {
	return EdgeKey(e.U, e.V)
}

// IsLoop reports whether both endpoints are the same node.
func (e Edge) IsLoop() bool {
	return Key(e.U) == Key(e.V)
}

func (e Edge) String() string {
	return fmt.Sprintf("(%s, %s)", Key(e.U), Key(e.V))
}
