package engine

import (
	"fmt"
	"sort"
)

// Enumerator is the embedded counting engine. It enumerates every connected
// induced subgraph of 2..size nodes exactly once with the ESU algorithm
// (Wernicke, 2006) and classifies each through the atlas lookup tables.
//
// An Enumerator holds no per-call state and is safe for concurrent use.
type Enumerator struct {
	atlas    *Atlas
	observer func(Stats)
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithObserver registers fn to receive the Stats of every successful call.
// fn may be called concurrently.
func WithObserver(fn func(Stats)) Option {
	return func(e *Enumerator) { e.observer = fn }
}

// NewEnumerator creates an engine backed by the default atlas.
func NewEnumerator(opts ...Option) *Enumerator {
	e := &Enumerator{atlas: DefaultAtlas()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MotifCounts implements Engine.
func (e *Enumerator) MotifCounts(mode Mode, size, nodeCount int, edges [][2]int) (*Matrix, error) {
	m, _, err := e.Count(mode, size, nodeCount, edges)
	return m, err
}

// BatchedMotifCounts implements BatchEngine by counting graphs in order.
func (e *Enumerator) BatchedMotifCounts(mode Mode, size int, nodeCounts []int, edgeLists [][][2]int) ([]*Matrix, error) {
	if len(nodeCounts) != len(edgeLists) {
		return nil, fmt.Errorf("%d node counts for %d edge lists", len(nodeCounts), len(edgeLists))
	}
	out := make([]*Matrix, len(edgeLists))
	for i := range edgeLists {
		m, err := e.MotifCounts(mode, size, nodeCounts[i], edgeLists[i])
		if err != nil {
			return nil, fmt.Errorf("graph %d: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

// Count is MotifCounts plus the work statistics of the call.
func (e *Enumerator) Count(mode Mode, size, nodeCount int, edges [][2]int) (*Matrix, Stats, error) {
	stats := Stats{Mode: mode, Size: size, Nodes: nodeCount, Edges: len(edges)}
	if err := Check(mode, size); err != nil {
		return nil, stats, err
	}
	if nodeCount < 0 {
		return nil, stats, fmt.Errorf("%w: negative node count %d", ErrNodeOutOfRange, nodeCount)
	}

	adj, err := newAdjacency(nodeCount, edges)
	if err != nil {
		return nil, stats, err
	}

	cols := e.atlas.NumOrbits(mode, size)
	w := &walker{
		size:   size,
		mode:   mode,
		atlas:  e.atlas,
		adj:    adj,
		out:    NewMatrix(ExpectedRows(mode, nodeCount, len(edges)), cols),
		minSub: 2,
	}
	if mode == ModeEdge {
		w.minSub = 3
	}
	w.run()

	stats.Subgraphs = w.visited
	if e.observer != nil {
		e.observer(stats)
	}
	return w.out, stats, nil
}

// adjacency is a sorted neighbour list per node plus an edge position lookup.
type adjacency struct {
	nbrs   [][]int
	edgeAt map[uint64]int
}

func edgeKey(u, v int) uint64 {
	if u > v {
		u, v = v, u
	}
	return uint64(u)<<32 | uint64(v)
}

func newAdjacency(n int, edges [][2]int) (*adjacency, error) {
	a := &adjacency{
		nbrs:   make([][]int, n),
		edgeAt: make(map[uint64]int, len(edges)),
	}
	for i, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf("edge %d (%d, %d): %w for %d nodes", i, u, v, ErrNodeOutOfRange, n)
		}
		if u == v {
			return nil, fmt.Errorf("edge %d (%d, %d): %w", i, u, v, ErrSelfLoop)
		}
		k := edgeKey(u, v)
		if first, dup := a.edgeAt[k]; dup {
			return nil, fmt.Errorf("edge %d (%d, %d) repeats edge %d: %w", i, u, v, first, ErrDuplicateEdge)
		}
		a.edgeAt[k] = i
		a.nbrs[u] = append(a.nbrs[u], v)
		a.nbrs[v] = append(a.nbrs[v], u)
	}
	for _, nb := range a.nbrs {
		sort.Ints(nb)
	}
	return a, nil
}

func (a *adjacency) edge(u, v int) (int, bool) {
	i, ok := a.edgeAt[edgeKey(u, v)]
	return i, ok
}

// walker carries the state of one ESU run.
type walker struct {
	size   int
	minSub int
	mode   Mode
	atlas  *Atlas
	adj    *adjacency
	out    *Matrix

	sub     [MaxGraphletNodes]int
	ext     [MaxGraphletNodes + 1][]int // extension buffer per depth
	eids    [MaxGraphletNodes * (MaxGraphletNodes - 1) / 2]int
	visited uint64
}

func (w *walker) run() {
	for v := range w.adj.nbrs {
		ext := w.ext[1][:0]
		for _, u := range w.adj.nbrs[v] {
			if u > v {
				ext = append(ext, u)
			}
		}
		w.ext[1] = ext
		w.sub[0] = v
		w.extend(1, ext, v)
	}
}

// extend grows the connected set sub[:depth]. ext holds the candidates that
// may still be added at this depth; it lives in w.ext[depth] and is consumed
// from the back.
func (w *walker) extend(depth int, ext []int, root int) {
	if depth >= w.minSub {
		w.visit(depth)
	}
	if depth == w.size {
		return
	}
	for len(ext) > 0 {
		x := ext[len(ext)-1]
		ext = ext[:len(ext)-1]

		next := append(w.ext[depth+1][:0], ext...)
		for _, u := range w.adj.nbrs[x] {
			if u > root && !w.touches(u, depth) {
				next = append(next, u)
			}
		}
		w.ext[depth+1] = next
		w.sub[depth] = x
		w.extend(depth+1, next, root)
	}
}

// touches reports whether u is in sub[:depth] or adjacent to one of its nodes.
func (w *walker) touches(u, depth int) bool {
	for _, s := range w.sub[:depth] {
		if s == u {
			return true
		}
		if _, ok := w.adj.edge(u, s); ok {
			return true
		}
	}
	return false
}

func (w *walker) visit(k int) {
	w.visited++
	t := w.atlas.tables[k]

	var mask uint16
	for b, pr := range t.pairs {
		if id, ok := w.adj.edge(w.sub[pr[0]], w.sub[pr[1]]); ok {
			mask |= 1 << b
			w.eids[b] = id
		}
	}

	cols := w.out.Cols
	if w.mode == ModeNode {
		for i, o := range t.nodeOrbit[mask] {
			w.out.Data[w.sub[i]*cols+int(o)]++
		}
		return
	}
	for b, o := range t.edgeOrbit[mask] {
		if o >= 0 {
			w.out.Data[w.eids[b]*cols+int(o)]++
		}
	}
}
