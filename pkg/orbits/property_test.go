package orbits

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomGraph adds nodes v0..v(n-1) first, so native index i is node vi.
func randomGraph(n int, p float64, seed uint64) *graph.Simple {
	r := rand.New(rand.NewPCG(seed, 11))
	g := graph.NewSimple()
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("v%d", i))
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if r.Float64() < p {
				g.AddEdge(fmt.Sprintf("v%d", u), fmt.Sprintf("v%d", v))
			}
		}
	}
	return g
}

func propertyParameters(t *testing.T) *gopter.TestParameters {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	return parameters
}

func TestProperty_NodePermutationInvariance(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters(t))

	properties.Property("node rows move with their nodes", prop.ForAll(
		func(n, size int, p float64, seed uint64) bool {
			g := randomGraph(n, p, seed)
			native, err := NodeOrbitCounts(g, size, nil)
			if err != nil {
				return false
			}

			order := g.Nodes()
			rand.New(rand.NewPCG(seed, 17)).Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
			permuted, err := NodeOrbitCounts(g, size, order)
			if err != nil {
				return false
			}

			nodes := g.Nodes()
			for i, node := range order {
				orig := slices.Index(nodes, node)
				if !slices.Equal(permuted.Row(i), native.Row(orig)) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 11),
		gen.IntRange(engine.MinGraphletSize, engine.MaxGraphletSize),
		gen.Float64Range(0.1, 0.7),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestProperty_EdgePermutationInvariance(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters(t))

	properties.Property("edge rows move with their edges", prop.ForAll(
		func(n, size int, p float64, seed uint64) bool {
			g := randomGraph(n, p, seed)
			native, err := EdgeOrbitCounts(g, size, nil, nil)
			if err != nil {
				return false
			}
			rowOf := make(map[[2]string][]uint64, g.NumberOfEdges())
			for i, e := range g.Edges() {
				rowOf[e.Key()] = native.Row(i)
			}

			r := rand.New(rand.NewPCG(seed, 23))
			edges := g.Edges()
			r.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
			for i := range edges {
				if r.IntN(2) == 0 {
					edges[i].U, edges[i].V = edges[i].V, edges[i].U
				}
			}
			nodes := g.Nodes()
			r.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

			permuted, err := EdgeOrbitCounts(g, size, nodes, edges)
			if err != nil {
				return false
			}
			for i, e := range edges {
				if !slices.Equal(permuted.Row(i), rowOf[e.Key()]) {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 11),
		gen.IntRange(engine.MinGraphletSize, engine.MaxGraphletSize),
		gen.Float64Range(0.1, 0.7),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestProperty_ShapeLaw(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters(t))

	properties.Property("one row per node or edge, one column per orbit", prop.ForAll(
		func(n, size int, p float64, seed uint64, edgeMode bool) bool {
			g := randomGraph(n, p, seed)
			mode, rows := engine.ModeNode, g.NumberOfNodes()
			if edgeMode {
				mode, rows = engine.ModeEdge, g.NumberOfEdges()
			}
			m, err := CountOrbits(mode, size, g, CountOptions{})
			if err != nil {
				return false
			}
			return m.Rows == rows && m.Cols == engine.NumOrbits(mode, size) && len(m.Data) == rows*m.Cols
		},
		gen.IntRange(0, 14),
		gen.IntRange(engine.MinGraphletSize, engine.MaxGraphletSize),
		gen.Float64Range(0, 1),
		gen.UInt64(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
