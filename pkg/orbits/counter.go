// Package orbits counts graphlet orbits of graphs with arbitrary node
// identities.
//
// A Counter maps a graph onto dense indices, rejects inputs no engine can
// count (self-loops, duplicate edges, unsupported modes and sizes), hands the
// index edge list to its engine and checks the shape of what comes back.
//
// Row order is part of the result: in node mode row i belongs to the i-th
// node of the node ordering, in edge mode to the i-th edge of the edge
// ordering. Orderings default to the graph's own Nodes() and Edges().
package orbits

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
	"github.com/dd0wney/cluso-orbitcount/pkg/logging"
	"github.com/dd0wney/cluso-orbitcount/pkg/metrics"
	"github.com/dd0wney/cluso-orbitcount/pkg/reindex"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
)

// Counter counts orbits through an engine. It holds no per-call state and
// is safe for concurrent use when its engine is.
type Counter struct {
	engine  engine.Engine
	logger  logging.Logger
	metrics *metrics.Registry
	workers int
}

// Option configures a Counter.
type Option func(*Counter)

// WithEngine replaces the embedded enumeration engine.
func WithEngine(e engine.Engine) Option {
	return func(c *Counter) { c.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Counter) { c.logger = l }
}

// WithMetrics records every call in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Counter) { c.metrics = reg }
}

// WithWorkers counts the graphs of a batch on n goroutines. The engine must
// be safe for concurrent use.
func WithWorkers(n int) Option {
	return func(c *Counter) { c.workers = n }
}

// New creates a Counter. Without options it uses the embedded enumeration
// engine, discards logs and records no metrics.
func New(opts ...Option) *Counter {
	c := &Counter{workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = engine.NewEnumerator()
	}
	if c.logger == nil {
		c.logger = logging.NewNopLogger()
	}
	c.logger = c.logger.With(logging.Component("orbits"))
	return c
}

// CountOptions holds the optional orderings of a counting call.
type CountOptions struct {
	// NodeOrder assigns indices; node-mode row i belongs to NodeOrder[i].
	NodeOrder []any
	// EdgeOrder sequences the edges; edge-mode row i belongs to EdgeOrder[i].
	// It must be a permutation of the graph's edges.
	EdgeOrder []graph.Edge
}

// job is one graph reduced to the engine's input.
type job struct {
	nodes int
	edges [][2]int
}

// statsEngine is implemented by engines that report their work.
type statsEngine interface {
	Count(mode engine.Mode, size, nodeCount int, edges [][2]int) (*engine.Matrix, engine.Stats, error)
}

// CountOrbits returns the (mode, size) orbit count matrix of g.
func (c *Counter) CountOrbits(mode engine.Mode, size int, g graph.Graph, opts CountOptions) (*engine.Matrix, error) {
	if err := validation.ValidateCountRequest(mode, size); err != nil {
		c.observe(mode, size, job{}, 0, nil, err)
		return nil, &CountError{Op: "count", Mode: mode, Size: size, Cause: err}
	}

	if c.metrics != nil {
		defer c.metrics.TrackInFlight()()
	}

	timer := logging.StartTimer(c.logger, "orbit counts computed", logging.Mode(string(mode)), logging.Size(size))
	j, err := prepare(g, opts.NodeOrder, opts.EdgeOrder)
	if err != nil {
		c.observe(mode, size, j, 0, timer, err)
		return nil, &CountError{Op: "count", Mode: mode, Size: size, Cause: err}
	}

	m, subgraphs, err := c.run(mode, size, j)
	c.observe(mode, size, j, subgraphs, timer, err)
	if err != nil {
		return nil, &CountError{Op: "count", Mode: mode, Size: size, Cause: err}
	}
	return m, nil
}

// NodeOrbitCounts returns one row per node of nodeOrder (or g.Nodes() when
// nodeOrder is nil).
func (c *Counter) NodeOrbitCounts(g graph.Graph, size int, nodeOrder []any) (*engine.Matrix, error) {
	return c.CountOrbits(engine.ModeNode, size, g, CountOptions{NodeOrder: nodeOrder})
}

// EdgeOrbitCounts returns one row per edge of edgeOrder (or g.Edges() when
// edgeOrder is nil). nodeOrder only affects the indices handed to the engine.
func (c *Counter) EdgeOrbitCounts(g graph.Graph, size int, nodeOrder []any, edgeOrder []graph.Edge) (*engine.Matrix, error) {
	return c.CountOrbits(engine.ModeEdge, size, g, CountOptions{NodeOrder: nodeOrder, EdgeOrder: edgeOrder})
}

// prepare reindexes g and rejects edge lists the engines cannot count.
func prepare(g graph.Graph, nodeOrder []any, edgeOrder []graph.Edge) (job, error) {
	edges, idx, err := reindex.Reindex(g, nodeOrder, edgeOrder)
	if err != nil {
		return job{}, err
	}
	j := job{nodes: idx.Len(), edges: edges}
	if err := checkSimple(idx, edges); err != nil {
		return j, err
	}
	return j, nil
}

func checkSimple(idx *reindex.IndexMap, edges [][2]int) error {
	seen := make(map[[2]int]int, len(edges))
	for pos, e := range edges {
		u, v := e[0], e[1]
		if u == v {
			return fmt.Errorf("edge %d (%s): %w", pos, graph.Key(idx.Node(u)), ErrSelfLoop)
		}
		if u > v {
			u, v = v, u
		}
		if first, dup := seen[[2]int{u, v}]; dup {
			return fmt.Errorf("edge %d (%s, %s) repeats edge %d: %w",
				pos, graph.Key(idx.Node(e[0])), graph.Key(idx.Node(e[1])), first, ErrDuplicateEdge)
		}
		seen[[2]int{u, v}] = pos
	}
	return nil
}

// run calls the engine for one prepared graph and checks the result.
func (c *Counter) run(mode engine.Mode, size int, j job) (*engine.Matrix, uint64, error) {
	var (
		m     *engine.Matrix
		stats engine.Stats
		err   error
	)
	if se, ok := c.engine.(statsEngine); ok {
		m, stats, err = se.Count(mode, size, j.nodes, j.edges)
	} else {
		m, err = c.engine.MotifCounts(mode, size, j.nodes, j.edges)
	}
	if err != nil {
		c.engineFailed("error")
		return nil, 0, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	if err := checkShape(mode, size, j, m); err != nil {
		c.engineFailed("shape")
		return nil, 0, err
	}
	return m, stats.Subgraphs, nil
}

func checkShape(mode engine.Mode, size int, j job, m *engine.Matrix) error {
	if m == nil {
		return engineFailure("no matrix returned")
	}
	rows := engine.ExpectedRows(mode, j.nodes, len(j.edges))
	cols := engine.NumOrbits(mode, size)
	if m.Rows != rows || m.Cols != cols {
		return engineFailure("got %dx%d matrix, expected %dx%d", m.Rows, m.Cols, rows, cols)
	}
	if len(m.Data) != rows*cols {
		return engineFailure("matrix holds %d values, expected %d", len(m.Data), rows*cols)
	}
	return nil
}

func (c *Counter) engineFailed(reason string) {
	if c.metrics != nil {
		c.metrics.RecordEngineFailure(engineLabel(c.engine), reason)
	}
}

func engineLabel(e engine.Engine) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*")
}

// observe logs and records one finished single-graph call. timer is nil when
// the call failed before any work started.
func (c *Counter) observe(mode engine.Mode, size int, j job, subgraphs uint64, timer *logging.TimedOperation, err error) {
	fields := []logging.Field{logging.Nodes(j.nodes), logging.Edges(len(j.edges))}
	sample := metrics.CountSample{
		Mode:      string(mode),
		Size:      size,
		Nodes:     j.nodes,
		Edges:     len(j.edges),
		Subgraphs: subgraphs,
		Err:       err,
	}

	switch {
	case err != nil:
		if timer != nil {
			sample.Duration = timer.Elapsed()
		}
		sample.Kind = errorKind(err)
		c.logger.Warn("orbit counting failed",
			append(fields, logging.Mode(string(mode)), logging.Size(size), logging.Error(err))...)
	default:
		sample.Duration = timer.End(append(fields, logging.Subgraphs(subgraphs))...)
	}

	if c.metrics != nil {
		c.metrics.RecordCount(sample)
	}
}
