package reindex

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
)

// edgeListGraph is a Graph whose node and edge sequences are taken verbatim,
// so tests can build inconsistent graphs.
type edgeListGraph struct {
	nodes []any
	edges []graph.Edge
}

func (g edgeListGraph) Nodes() []any        { return g.nodes }
func (g edgeListGraph) Edges() []graph.Edge { return g.edges }
func (g edgeListGraph) NumberOfNodes() int  { return len(g.nodes) }
func (g edgeListGraph) NumberOfEdges() int  { return len(g.edges) }

func triangleWithTail() *graph.Simple {
	return graph.FromEdges(
		graph.Edge{U: "a", V: "b"},
		graph.Edge{U: "b", V: "c"},
		graph.Edge{U: "c", V: "a"},
		graph.Edge{U: "c", V: "d"},
	)
}

func TestBuildIndexMap(t *testing.T) {
	m, err := BuildIndexMap([]any{"x", 7, "z"})
	if err != nil {
		t.Fatalf("BuildIndexMap failed: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", m.Len())
	}

	for want, node := range []any{"x", "7", "z"} {
		got, ok := m.Index(node)
		if !ok || got != want {
			t.Errorf("Index(%v) = %d, %v; expected %d", node, got, ok, want)
		}
	}
	if m.Node(1) != 7 {
		t.Errorf("Node(1) should return the original identity, got %#v", m.Node(1))
	}
	if _, ok := m.Index("missing"); ok {
		t.Error("Index of a missing node should report false")
	}
}

func TestBuildIndexMap_DuplicateKey(t *testing.T) {
	_, err := BuildIndexMap([]any{1, 2, "1"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("Expected ErrInvalidOrder, got %v", err)
	}

	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatalf("Expected *MappingError, got %T", err)
	}
	if me.Position != 2 || me.Node != "1" {
		t.Errorf("Unexpected error detail: %+v", me)
	}
}

func TestReindex_NativeOrder(t *testing.T) {
	edges, m, err := Reindex(triangleWithTail(), nil, nil)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	want := [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}}
	if len(edges) != len(want) {
		t.Fatalf("Expected %d edges, got %d", len(want), len(edges))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
	if m.Len() != 4 {
		t.Errorf("Expected 4 indexed nodes, got %d", m.Len())
	}
}

func TestReindex_ExplicitNodeOrder(t *testing.T) {
	edges, _, err := Reindex(triangleWithTail(), []any{"d", "c", "b", "a"}, nil)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	want := [][2]int{{3, 2}, {2, 1}, {1, 3}, {1, 0}}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
}

func TestReindex_ExplicitEdgeOrder(t *testing.T) {
	order := []graph.Edge{
		{U: "d", V: "c"},
		{U: "a", V: "b"},
		{U: "a", V: "c"},
		{U: "b", V: "c"},
	}
	edges, _, err := Reindex(triangleWithTail(), nil, order)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	want := [][2]int{{3, 2}, {0, 1}, {0, 2}, {1, 2}}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
}

func TestReindex_Deterministic(t *testing.T) {
	g := triangleWithTail()
	first, _, err := Reindex(g, nil, nil)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, _, err := Reindex(g, nil, nil)
		if err != nil {
			t.Fatalf("Reindex failed: %v", err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("iteration %d: edge %d changed from %v to %v", i, j, first[j], again[j])
			}
		}
	}
}

func TestReindex_Errors(t *testing.T) {
	tests := []struct {
		name      string
		g         graph.Graph
		nodeOrder []any
		edgeOrder []graph.Edge
		want      error
	}{
		{
			name: "edge references unknown node",
			g: edgeListGraph{
				nodes: []any{"a", "b"},
				edges: []graph.Edge{{U: "a", V: "b"}, {U: "b", V: "ghost"}},
			},
			want: ErrUnknownNode,
		},
		{
			name:      "node order too short",
			g:         triangleWithTail(),
			nodeOrder: []any{"a", "b", "c"},
			want:      ErrInvalidOrder,
		},
		{
			name:      "node order with duplicate",
			g:         triangleWithTail(),
			nodeOrder: []any{"a", "b", "c", "a"},
			want:      ErrInvalidOrder,
		},
		{
			name:      "node order with foreign node",
			g:         triangleWithTail(),
			nodeOrder: []any{"a", "b", "c", "x"},
			want:      ErrInvalidOrder,
		},
		{
			name:      "edge order too short",
			g:         triangleWithTail(),
			edgeOrder: []graph.Edge{{U: "a", V: "b"}},
			want:      ErrInvalidOrder,
		},
		{
			name: "edge order with foreign edge",
			g:    triangleWithTail(),
			edgeOrder: []graph.Edge{
				{U: "a", V: "b"}, {U: "b", V: "c"}, {U: "c", V: "a"}, {U: "a", V: "d"},
			},
			want: ErrInvalidOrder,
		},
		{
			name: "edge order with repeated edge",
			g:    triangleWithTail(),
			edgeOrder: []graph.Edge{
				{U: "a", V: "b"}, {U: "b", V: "a"}, {U: "c", V: "a"}, {U: "c", V: "d"},
			},
			want: ErrInvalidOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, m, err := Reindex(tt.g, tt.nodeOrder, tt.edgeOrder)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if edges != nil || m != nil {
				t.Error("A failed Reindex must not return partial results")
			}
		})
	}
}

func TestMappingError_Error(t *testing.T) {
	tests := []struct {
		err      *MappingError
		expected string
	}{
		{
			err:      &MappingError{Op: "edges", Node: "x", Position: 3, Cause: ErrUnknownNode},
			expected: `edges "x" at 3: unknown node`,
		},
		{
			err:      &MappingError{Op: "index", Position: -1, Cause: ErrInvalidOrder, Context: "too short"},
			expected: "index (too short): invalid order",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}

	if !IsUnknownNode(tests[0].err) || IsInvalidOrder(tests[0].err) {
		t.Error("Error helpers misclassified an unknown node error")
	}
}
