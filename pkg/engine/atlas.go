package engine

import (
	"fmt"
	"slices"
	"sync"
)

// MaxGraphletNodes is the largest graphlet the atlas describes.
const MaxGraphletNodes = 5

// Graphlet is one connected graph on 2..5 nodes, up to isomorphism.
//
// Canonical is the adjacency mask of the graphlet's canonical labelling: bit b
// is set when the b-th pair in lexicographic order ((0,1), (0,2), ..., (1,2),
// ...) is an edge. The canonical labelling is the one with the smallest mask.
type Graphlet struct {
	ID         int
	Nodes      int
	Edges      int
	Canonical  uint16
	NodeOrbits []int // node orbit ids, ascending
	EdgeOrbits []int // edge orbit ids, ascending; empty for the single edge
}

// Atlas classifies induced subgraphs into graphlets and orbits.
//
// Graphlets G0..G29 and node orbits 0..72 follow Pržulj's numbering, the one
// ORCA reports. Edge orbits follow ORCA: they start at the 3-node graphlets,
// so a graphlet size of 4 has edge orbits 0..11 and a size of 5 has 0..67.
type Atlas struct {
	graphlets []Graphlet
	tables    [MaxGraphletNodes + 1]*sizeTable
	// cumulative orbit counts over all graphlets with at most s nodes
	nodeOrbits [MaxGraphletNodes + 1]int
	edgeOrbits [MaxGraphletNodes + 1]int
}

// sizeTable maps every labelled adjacency mask on k nodes to its orbits, so
// classification at count time is a table lookup.
type sizeTable struct {
	k         int
	pairs     [][2]int
	pairIndex [MaxGraphletNodes][MaxGraphletNodes]int
	graphlet  []int    // mask -> graphlet id, -1 when disconnected
	nodeOrbit [][]int8 // mask -> position -> node orbit id
	edgeOrbit [][]int8 // mask -> pair index -> edge orbit id, -1 when absent
}

// graphletOrbits is one graphlet in a fixed labelling. nodeOrbits[v] is the
// orbit of node v; edgeOrbits[i] is the orbit of edges[i].
type graphletOrbits struct {
	nodes      int
	edges      [][2]int
	nodeOrbits []int
	edgeOrbits []int
}

// standardGraphlets lists G0..G29 in numbering order.
var standardGraphlets = []graphletOrbits{
	// G0 edge
	{2, [][2]int{{0, 1}}, []int{0, 0}, nil},
	// G1 path, G2 triangle
	{3, [][2]int{{0, 1}, {1, 2}}, []int{1, 2, 1}, []int{0, 0}},
	{3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, []int{3, 3, 3}, []int{1, 1, 1}},
	// G3 path
	{4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, []int{4, 5, 5, 4}, []int{2, 3, 2}},
	// G4 star
	{4, [][2]int{{0, 1}, {0, 2}, {0, 3}}, []int{7, 6, 6, 6}, []int{4, 4, 4}},
	// G5 cycle
	{4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}}, []int{8, 8, 8, 8}, []int{5, 5, 5, 5}},
	// G6 paw
	{4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}}, []int{10, 10, 11, 9}, []int{7, 8, 8, 6}},
	// G7 diamond
	{4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}, []int{12, 13, 13, 12}, []int{9, 9, 10, 9, 9}},
	// G8 clique
	{4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, []int{14, 14, 14, 14}, []int{11, 11, 11, 11, 11, 11}},
	// G9 path
	{5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
		[]int{15, 16, 17, 16, 15}, []int{12, 13, 13, 12}},
	// G10 fork: a star with one leg extended
	{5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {2, 4}},
		[]int{18, 20, 21, 19, 19}, []int{14, 16, 15, 15}},
	// G11 star
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
		[]int{23, 22, 22, 22, 22}, []int{17, 17, 17, 17}},
	// G12 bull
	{5, [][2]int{{0, 1}, {1, 2}, {0, 2}, {0, 3}, {1, 4}},
		[]int{26, 26, 25, 24, 24}, []int{20, 19, 19, 18, 18}},
	// G13 triangle with a two-edge tail
	{5, [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}},
		[]int{29, 29, 30, 28, 27}, []int{22, 24, 24, 23, 21}},
	// G14 triangle with two pendants on one node
	{5, [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {2, 4}},
		[]int{32, 32, 33, 31, 31}, []int{26, 27, 27, 25, 25}},
	// G15 cycle
	{5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}},
		[]int{34, 34, 34, 34, 34}, []int{28, 28, 28, 28, 28}},
	// G16 4-cycle with a pendant
	{5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}, {0, 4}},
		[]int{38, 37, 36, 37, 35}, []int{31, 30, 30, 31, 29}},
	// G17 diamond with a pendant on a degree-3 node
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}},
		[]int{42, 41, 40, 40, 39}, []int{35, 34, 34, 32, 33, 33}},
	// G18 bowtie
	{5, [][2]int{{0, 1}, {0, 2}, {1, 2}, {0, 3}, {0, 4}, {3, 4}},
		[]int{44, 43, 43, 43, 43}, []int{37, 37, 36, 37, 37, 36}},
	// G19 diamond with a pendant on a degree-2 node
	{5, [][2]int{{0, 1}, {0, 2}, {0, 4}, {1, 2}, {1, 3}, {2, 3}},
		[]int{47, 48, 48, 46, 45}, []int{40, 40, 38, 41, 39, 39}},
	// G20 complete bipartite K2,3
	{5, [][2]int{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}},
		[]int{50, 50, 49, 49, 49}, []int{42, 42, 42, 42, 42, 42}},
	// G21 house
	{5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}, {1, 4}},
		[]int{52, 53, 51, 51, 53}, []int{45, 44, 43, 44, 45, 46}},
	// G22 three triangles sharing an edge
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}},
		[]int{55, 55, 54, 54, 54}, []int{48, 47, 47, 47, 47, 47, 47}},
	// G23 clique on four nodes with a pendant
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}, {3, 4}},
		[]int{57, 57, 57, 58, 56}, []int{50, 50, 51, 50, 51, 51, 49}},
	// G24 house with one diagonal
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 4}, {2, 3}},
		[]int{61, 60, 60, 59, 59}, []int{55, 55, 53, 53, 54, 52, 52}},
	// G25 K2,3 with an edge in the larger side
	{5, [][2]int{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}},
		[]int{63, 63, 64, 64, 62}, []int{57, 57, 56, 57, 57, 56, 58}},
	// G26 clique minus a two-edge path
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}},
		[]int{67, 67, 66, 66, 65}, []int{62, 61, 61, 59, 61, 61, 59, 60}},
	// G27 wheel
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {2, 3}, {3, 4}, {1, 4}},
		[]int{69, 68, 68, 68, 68}, []int{64, 64, 64, 64, 63, 63, 63, 63}},
	// G28 clique minus an edge
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}},
		[]int{71, 71, 71, 70, 70}, []int{66, 66, 65, 65, 66, 65, 65, 65, 65}},
	// G29 clique
	{5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}},
		[]int{72, 72, 72, 72, 72}, []int{67, 67, 67, 67, 67, 67, 67, 67, 67, 67}},
}

var (
	defaultAtlas *Atlas
	atlasOnce    sync.Once
)

// DefaultAtlas returns the process-wide atlas, building it on first use.
// The atlas is immutable.
func DefaultAtlas() *Atlas {
	atlasOnce.Do(func() {
		a, err := buildAtlas(standardGraphlets)
		if err != nil {
			panic(err)
		}
		defaultAtlas = a
	})
	return defaultAtlas
}

// Graphlets returns the graphlets in id order.
func (a *Atlas) Graphlets() []Graphlet {
	out := make([]Graphlet, len(a.graphlets))
	copy(out, a.graphlets)
	return out
}

// NumOrbits returns the number of node or edge orbits over graphlets of at
// most size nodes.
func (a *Atlas) NumOrbits(mode Mode, size int) int {
	if size < 2 || size > MaxGraphletNodes {
		return 0
	}
	if mode == ModeEdge {
		return a.edgeOrbits[size]
	}
	return a.nodeOrbits[size]
}

// Classify returns the graphlet id and per-position node orbits of the graph
// on k nodes whose adjacency is given by mask. ok is false when the graph is
// disconnected or k is out of range.
func (a *Atlas) Classify(k int, mask uint16) (graphlet int, orbits []int, ok bool) {
	if k < 2 || k > MaxGraphletNodes {
		return -1, nil, false
	}
	t := a.tables[k]
	if int(mask) >= len(t.graphlet) || t.graphlet[mask] < 0 {
		return -1, nil, false
	}
	orbits = make([]int, k)
	for i, o := range t.nodeOrbit[mask] {
		orbits[i] = int(o)
	}
	return t.graphlet[mask], orbits, true
}

// ClassifyEdges is Classify for edges: orbits[b] is the edge orbit of the
// b-th pair of Pairs(k), or -1 when that pair is not an edge. Every orbit is
// -1 for k = 2.
func (a *Atlas) ClassifyEdges(k int, mask uint16) (graphlet int, orbits []int, ok bool) {
	if k < 2 || k > MaxGraphletNodes {
		return -1, nil, false
	}
	t := a.tables[k]
	if int(mask) >= len(t.graphlet) || t.graphlet[mask] < 0 {
		return -1, nil, false
	}
	orbits = make([]int, len(t.pairs))
	for b, o := range t.edgeOrbit[mask] {
		orbits[b] = int(o)
	}
	return t.graphlet[mask], orbits, true
}

// Pairs returns the node pairs of a k-node adjacency mask in bit order.
func (a *Atlas) Pairs(k int) [][2]int {
	if k < 2 || k > MaxGraphletNodes {
		return nil
	}
	return append([][2]int(nil), a.tables[k].pairs...)
}

// buildAtlas expands every graphlet into all of its labellings. The orbit
// assignment of each graphlet is checked against its automorphisms, and the
// graphlets of each size must cover every connected mask exactly once.
func buildAtlas(defs []graphletOrbits) (*Atlas, error) {
	a := &Atlas{}
	for k := 2; k <= MaxGraphletNodes; k++ {
		a.tables[k] = newSizeTable(k)
	}

	nextNode, nextEdge := 0, 0
	for id, def := range defs {
		k := def.nodes
		if k < 2 || k > MaxGraphletNodes || id > 0 && k < defs[id-1].nodes {
			return nil, fmt.Errorf("engine: graphlet %d: bad node count %d", id, k)
		}
		t := a.tables[k]
		g, err := t.add(id, def)
		if err != nil {
			return nil, fmt.Errorf("engine: graphlet %d: %w", id, err)
		}
		for _, o := range g.NodeOrbits {
			if o != nextNode {
				return nil, fmt.Errorf("engine: graphlet %d: node orbit %d out of sequence, expected %d", id, o, nextNode)
			}
			nextNode++
		}
		for _, o := range g.EdgeOrbits {
			if o != nextEdge {
				return nil, fmt.Errorf("engine: graphlet %d: edge orbit %d out of sequence, expected %d", id, o, nextEdge)
			}
			nextEdge++
		}
		a.graphlets = append(a.graphlets, g)
		a.nodeOrbits[k] = nextNode
		a.edgeOrbits[k] = nextEdge
	}

	for k := 2; k <= MaxGraphletNodes; k++ {
		t := a.tables[k]
		for m := range t.graphlet {
			if connected := t.connected(uint16(m)); connected != (t.graphlet[m] >= 0) {
				return nil, fmt.Errorf("engine: %d-node mask %d: connected=%v but classified=%v",
					k, m, connected, t.graphlet[m] >= 0)
			}
		}
	}
	return a, nil
}

func newSizeTable(k int) *sizeTable {
	t := &sizeTable{k: k}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			t.pairIndex[i][j] = len(t.pairs)
			t.pairIndex[j][i] = len(t.pairs)
			t.pairs = append(t.pairs, [2]int{i, j})
		}
	}
	masks := 1 << len(t.pairs)
	t.graphlet = make([]int, masks)
	t.nodeOrbit = make([][]int8, masks)
	t.edgeOrbit = make([][]int8, masks)
	for m := range t.graphlet {
		t.graphlet[m] = -1
	}
	return t
}

// add records every labelling of def under graphlet id.
func (t *sizeTable) add(id int, def graphletOrbits) (Graphlet, error) {
	if len(def.nodeOrbits) != t.k {
		return Graphlet{}, fmt.Errorf("%d node orbits for %d nodes", len(def.nodeOrbits), t.k)
	}
	if t.k > 2 && len(def.edgeOrbits) != len(def.edges) {
		return Graphlet{}, fmt.Errorf("%d edge orbits for %d edges", len(def.edgeOrbits), len(def.edges))
	}

	var base uint16
	for _, e := range def.edges {
		base |= 1 << t.pairIndex[e[0]][e[1]]
	}
	if err := t.checkOrbits(base, def); err != nil {
		return Graphlet{}, err
	}

	g := Graphlet{ID: id, Nodes: t.k, Edges: len(def.edges), Canonical: 0xffff}
	for _, p := range permutations(t.k) {
		mask := t.permute(base, p)
		if mask < g.Canonical {
			g.Canonical = mask
		}
		if t.graphlet[mask] >= 0 {
			if t.graphlet[mask] != id {
				return Graphlet{}, fmt.Errorf("isomorphic to graphlet %d", t.graphlet[mask])
			}
			continue
		}
		t.graphlet[mask] = id

		nodes := make([]int8, t.k)
		for v, o := range def.nodeOrbits {
			nodes[p[v]] = int8(o)
		}
		t.nodeOrbit[mask] = nodes

		pairs := make([]int8, len(t.pairs))
		for b := range pairs {
			pairs[b] = -1
		}
		if t.k > 2 {
			for i, e := range def.edges {
				pairs[t.pairIndex[p[e[0]]][p[e[1]]]] = int8(def.edgeOrbits[i])
			}
		}
		t.edgeOrbit[mask] = pairs
	}

	g.NodeOrbits = distinctSorted(def.nodeOrbits)
	if t.k > 2 {
		g.EdgeOrbits = distinctSorted(def.edgeOrbits)
	}
	return g, nil
}

// checkOrbits verifies that two nodes (or edges) of the graphlet share an
// orbit id exactly when an automorphism maps one onto the other.
func (t *sizeTable) checkOrbits(mask uint16, def graphletOrbits) error {
	if !t.connected(mask) {
		return fmt.Errorf("disconnected")
	}
	edgeAt := make(map[int]int, len(def.edges))
	for i, e := range def.edges {
		edgeAt[t.pairIndex[e[0]][e[1]]] = i
	}

	// union of automorphism images
	nodeSame := make([][]bool, t.k)
	for v := range nodeSame {
		nodeSame[v] = make([]bool, t.k)
	}
	edgeSame := make([][]bool, len(def.edges))
	for i := range edgeSame {
		edgeSame[i] = make([]bool, len(def.edges))
	}
	for _, p := range permutations(t.k) {
		if t.permute(mask, p) != mask {
			continue
		}
		for v := 0; v < t.k; v++ {
			nodeSame[v][p[v]] = true
		}
		for i, e := range def.edges {
			edgeSame[i][edgeAt[t.pairIndex[p[e[0]]][p[e[1]]]]] = true
		}
	}

	for u := 0; u < t.k; u++ {
		for v := 0; v < t.k; v++ {
			if nodeSame[u][v] != (def.nodeOrbits[u] == def.nodeOrbits[v]) {
				return fmt.Errorf("nodes %d and %d: orbit ids %d and %d disagree with automorphisms",
					u, v, def.nodeOrbits[u], def.nodeOrbits[v])
			}
		}
	}
	if t.k == 2 {
		return nil
	}
	for i := range def.edges {
		for j := range def.edges {
			if edgeSame[i][j] != (def.edgeOrbits[i] == def.edgeOrbits[j]) {
				return fmt.Errorf("edges %v and %v: orbit ids %d and %d disagree with automorphisms",
					def.edges[i], def.edges[j], def.edgeOrbits[i], def.edgeOrbits[j])
			}
		}
	}
	return nil
}

func distinctSorted(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// permute relabels mask so that node i becomes p[i].
func (t *sizeTable) permute(mask uint16, p []int) uint16 {
	var out uint16
	for b, pr := range t.pairs {
		if mask&(1<<b) != 0 {
			out |= 1 << t.pairIndex[p[pr[0]]][p[pr[1]]]
		}
	}
	return out
}

func (t *sizeTable) connected(mask uint16) bool {
	seen := 1
	stack := []int{0}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for y := 0; y < t.k; y++ {
			if x != y && seen&(1<<y) == 0 && mask&(1<<t.pairIndex[x][y]) != 0 {
				seen |= 1 << y
				stack = append(stack, y)
			}
		}
	}
	return seen == 1<<t.k-1
}

// permutations returns all permutations of 0..k-1 in lexicographic order.
func permutations(k int) [][]int {
	var out [][]int
	p := make([]int, k)
	used := make([]bool, k)
	var rec func(i int)
	rec = func(i int) {
		if i == k {
			out = append(out, append([]int(nil), p...))
			return
		}
		for v := 0; v < k; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			p[i] = v
			rec(i + 1)
			used[v] = false
		}
	}
	rec(0)
	return out
}
