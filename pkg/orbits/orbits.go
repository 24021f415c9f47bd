package orbits

import (
	"sync"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
)

var (
	defaultCounter     *Counter
	defaultCounterOnce sync.Once
)

// Default returns the counter used by the package-level functions: the
// embedded engine, no logging and no metrics.
func Default() *Counter {
	defaultCounterOnce.Do(func() {
		defaultCounter = New()
	})
	return defaultCounter
}

// CountOrbits counts g with the default counter.
func CountOrbits(mode engine.Mode, size int, g graph.Graph, opts CountOptions) (*engine.Matrix, error) {
	return Default().CountOrbits(mode, size, g, opts)
}

// NodeOrbitCounts counts the node orbits of g with the default counter.
func NodeOrbitCounts(g graph.Graph, size int, nodeOrder []any) (*engine.Matrix, error) {
	return Default().NodeOrbitCounts(g, size, nodeOrder)
}

// EdgeOrbitCounts counts the edge orbits of g with the default counter.
func EdgeOrbitCounts(g graph.Graph, size int, nodeOrder []any, edgeOrder []graph.Edge) (*engine.Matrix, error) {
	return Default().EdgeOrbitCounts(g, size, nodeOrder, edgeOrder)
}

// BatchedCountOrbits counts several graphs with the default counter.
func BatchedCountOrbits(mode engine.Mode, size int, graphs []graph.Graph, nodeOrders [][]any) ([]*engine.Matrix, error) {
	return Default().BatchedCountOrbits(mode, size, graphs, nodeOrders)
}

// BatchedNodeOrbitCounts counts node orbits of several graphs with the default counter.
func BatchedNodeOrbitCounts(graphs []graph.Graph, size int, nodeOrders [][]any) ([]*engine.Matrix, error) {
	return Default().BatchedNodeOrbitCounts(graphs, size, nodeOrders)
}

// BatchedEdgeOrbitCounts counts edge orbits of several graphs with the default counter.
func BatchedEdgeOrbitCounts(graphs []graph.Graph, size int, nodeOrders [][]any) ([]*engine.Matrix, error) {
	return Default().BatchedEdgeOrbitCounts(graphs, size, nodeOrders)
}
