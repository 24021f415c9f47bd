// Package engine holds the counting engine contract and the embedded engine
// that satisfies it.
//
// An engine receives a graph already reduced to dense indices, node count plus
// an edge list of index pairs, and returns one row of orbit counts per node
// (node mode) or per edge (edge mode). Rows follow index order in node mode
// and edge-list order in edge mode; columns are orbit ids.
package engine

import (
	"errors"
	"fmt"
)

// Mode selects what the rows of a count matrix describe.
type Mode string

const (
	ModeNode Mode = "node"
	ModeEdge Mode = "edge"
)

// Graphlet sizes the engines accept.
const (
	MinGraphletSize = 4
	MaxGraphletSize = 5
)

// Sentinel errors
var (
	ErrUnsupportedMode = errors.New("unsupported counting mode")
	ErrUnsupportedSize = errors.New("unsupported graphlet size")
	ErrSelfLoop        = errors.New("self-loop")
	ErrDuplicateEdge   = errors.New("duplicate edge")
	ErrNodeOutOfRange  = errors.New("node index out of range")
	ErrShapeMismatch   = errors.New("count matrix shape mismatch")
)

// Engine counts orbits for one graph.
type Engine interface {
	MotifCounts(mode Mode, size, nodeCount int, edges [][2]int) (*Matrix, error)
}

// BatchEngine counts orbits for several graphs in one call. Result i belongs
// to graph i; a failure on any graph fails the whole call.
type BatchEngine interface {
	BatchedMotifCounts(mode Mode, size int, nodeCounts []int, edgeLists [][][2]int) ([]*Matrix, error)
}

// ParseMode converts "node" or "edge" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNode, ModeEdge:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

// Check reports whether (mode, size) is a supported request.
func Check(mode Mode, size int) error {
	if mode != ModeNode && mode != ModeEdge {
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(mode))
	}
	if size < MinGraphletSize || size > MaxGraphletSize {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	return nil
}

// NumOrbits returns the column count of a count matrix for (mode, size):
// 15 and 73 node orbits, 12 and 68 edge orbits for sizes 4 and 5.
// It returns 0 for unsupported requests.
func NumOrbits(mode Mode, size int) int {
	if Check(mode, size) != nil {
		return 0
	}
	return DefaultAtlas().NumOrbits(mode, size)
}

// ExpectedRows returns the row count of a count matrix for a graph with
// nodeCount nodes and edgeCount edges.
func ExpectedRows(mode Mode, nodeCount, edgeCount int) int {
	if mode == ModeEdge {
		return edgeCount
	}
	return nodeCount
}

// Stats describes the work done by one counting call.
type Stats struct {
	Mode      Mode
	Size      int
	Nodes     int
	Edges     int
	Subgraphs uint64 // connected induced subgraphs visited
}
