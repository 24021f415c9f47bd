package reference

import (
	"slices"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
)

// Baseline returns an in-process Runner that counts orbits by growing every
// connected node set level by level and deduplicating. It shares neither
// enumeration nor orbit classification with the embedded engine: orbits are
// looked up by degree and triangle invariants in its own table. It is slow
// and meant for cross-checking engines on small graphs. Output paths ending
// in ".sz" are written compressed.
func Baseline() Runner {
	return RunnerFunc(runBaseline)
}

func runBaseline(mode engine.Mode, size int, input, output string) error {
	in, err := OpenInput(input)
	if err != nil {
		return err
	}
	n, edges, err := ReadEdgeList(in)
	in.Close()
	if err != nil {
		return err
	}

	m, err := BaselineCounts(mode, size, n, edges)
	if err != nil {
		return err
	}

	out, err := CreateOutput(output)
	if err != nil {
		return err
	}
	if err := WriteCounts(out, m); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type nodeSet [engine.MaxGraphletNodes]int32

// BaselineCounts computes the orbit count matrix by connected set expansion.
func BaselineCounts(mode engine.Mode, size, n int, edges [][2]int) (*engine.Matrix, error) {
	if err := engine.Check(mode, size); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, engine.ErrNodeOutOfRange
	}
	nbrs := make([][]int, n)
	edgeAt := make(map[[2]int]int, len(edges))
	for i, e := range edges {
		u, v := min(e[0], e[1]), max(e[0], e[1])
		if u < 0 || v >= n {
			return nil, engine.ErrNodeOutOfRange
		}
		if u == v {
			return nil, engine.ErrSelfLoop
		}
		if _, dup := edgeAt[[2]int{u, v}]; dup {
			return nil, engine.ErrDuplicateEdge
		}
		edgeAt[[2]int{u, v}] = i
		nbrs[u] = append(nbrs[u], v)
		nbrs[v] = append(nbrs[v], u)
	}

	out := engine.NewMatrix(engine.ExpectedRows(mode, n, len(edges)), engine.NumOrbits(mode, size))

	level := make([][]int, 0, n)
	for v := 0; v < n; v++ {
		level = append(level, []int{v})
	}
	for k := 2; k <= size; k++ {
		seen := make(map[nodeSet]struct{})
		var next [][]int
		for _, set := range level {
			for _, s := range set {
				for _, u := range nbrs[s] {
					if slices.Contains(set, u) {
						continue
					}
					grown := append(append(make([]int, 0, k), set...), u)
					slices.Sort(grown)
					var key nodeSet
					for i, v := range grown {
						key[i] = int32(v) + 1
					}
					if _, ok := seen[key]; ok {
						continue
					}
					seen[key] = struct{}{}
					next = append(next, grown)
				}
			}
		}
		level = next

		if mode == engine.ModeEdge && k < 3 {
			continue
		}
		for _, set := range level {
			if err := countSet(out, mode, set, edgeAt); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// countSet adds the orbits of the subgraph induced by set to out.
func countSet(out *engine.Matrix, mode engine.Mode, set []int, edgeAt map[[2]int]int) error {
	sh := induced(set, edgeAt)
	degrees, triangles := sh.summary()

	if mode == engine.ModeNode {
		for i, v := range set {
			o, err := nodeOrbit(sh.nodeSignature(degrees, triangles, i))
			if err != nil {
				return err
			}
			out.Data[v*out.Cols+o]++
		}
		return nil
	}

	for i := range set {
		for j := i + 1; j < len(set); j++ {
			id, ok := edgeAt[[2]int{set[i], set[j]}]
			if !ok {
				continue
			}
			o, err := edgeOrbit(sh.edgeSignature(degrees, triangles, i, j))
			if err != nil {
				return err
			}
			out.Data[id*out.Cols+o]++
		}
	}
	return nil
}
