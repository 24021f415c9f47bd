package orbits

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
	"github.com/dd0wney/cluso-orbitcount/pkg/logging"
	"github.com/dd0wney/cluso-orbitcount/pkg/parallel"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
	"github.com/google/uuid"
)

// Batch dispatch paths, used as log and metric labels.
const (
	PathBatchEngine = "batch_engine"
	PathParallel    = "parallel"
	PathSequential  = "sequential"
)

// BatchedCountOrbits counts every graph of graphs. Result i belongs to
// graphs[i].
//
// nodeOrders is either nil, in which case every graph uses its native node
// order, or holds one ordering per graph; a nil entry selects the native
// order of that graph. Any failure fails the whole call and no results are
// returned.
func (c *Counter) BatchedCountOrbits(mode engine.Mode, size int, graphs []graph.Graph, nodeOrders [][]any) ([]*engine.Matrix, error) {
	err := validation.ValidateBatchRequest(mode, size, len(graphs), len(nodeOrders), nodeOrders != nil)
	if err != nil {
		return nil, &CountError{Op: "batch", Mode: mode, Size: size, Cause: err}
	}
	if len(graphs) == 0 {
		return []*engine.Matrix{}, nil
	}

	path := c.batchPath()
	logger := c.logger.With(
		logging.BatchID(uuid.NewString()),
		logging.BatchSize(len(graphs)),
		logging.Mode(string(mode)),
		logging.Size(size),
		logging.String("path", path),
	)
	start := time.Now()

	results, err := c.runBatch(mode, size, path, graphs, nodeOrders)
	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordBatch(string(mode), path, len(graphs), duration, err)
	}
	if err != nil {
		logger.Warn("batched orbit counting failed", logging.Error(err), logging.Latency(duration))
		return nil, &CountError{Op: "batch", Mode: mode, Size: size, Cause: err}
	}
	logger.Debug("batched orbit counts computed", logging.Latency(duration))
	return results, nil
}

// BatchedNodeOrbitCounts is BatchedCountOrbits in node mode.
func (c *Counter) BatchedNodeOrbitCounts(graphs []graph.Graph, size int, nodeOrders [][]any) ([]*engine.Matrix, error) {
	return c.BatchedCountOrbits(engine.ModeNode, size, graphs, nodeOrders)
}

// BatchedEdgeOrbitCounts is BatchedCountOrbits in edge mode. Rows follow each
// graph's native edge order.
func (c *Counter) BatchedEdgeOrbitCounts(graphs []graph.Graph, size int, nodeOrders [][]any) ([]*engine.Matrix, error) {
	return c.BatchedCountOrbits(engine.ModeEdge, size, graphs, nodeOrders)
}

func (c *Counter) batchPath() string {
	if c.workers > 1 {
		return PathParallel
	}
	if _, ok := c.engine.(engine.BatchEngine); ok {
		return PathBatchEngine
	}
	return PathSequential
}

func (c *Counter) runBatch(mode engine.Mode, size int, path string, graphs []graph.Graph, nodeOrders [][]any) ([]*engine.Matrix, error) {
	// every graph is checked before the engine sees any of them
	jobs := make([]job, len(graphs))
	for i, g := range graphs {
		var order []any
		if nodeOrders != nil {
			order = nodeOrders[i]
		}
		j, err := prepare(g, order, nil)
		if err != nil {
			return nil, &BatchError{Index: i, Cause: err}
		}
		jobs[i] = j
	}

	if path == PathBatchEngine {
		return c.runBatchEngine(mode, size, jobs)
	}

	workers := 1
	if path == PathParallel {
		workers = c.workers
		if c.metrics != nil {
			c.metrics.BatchWorkers.Set(float64(workers))
		}
	}

	results := make([]*engine.Matrix, len(jobs))
	err := parallel.Run(workers, len(jobs), func(i int) error {
		m, _, err := c.run(mode, size, jobs[i])
		if err != nil {
			return &BatchError{Index: i, Cause: err}
		}
		results[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Counter) runBatchEngine(mode engine.Mode, size int, jobs []job) ([]*engine.Matrix, error) {
	be := c.engine.(engine.BatchEngine)

	nodeCounts := make([]int, len(jobs))
	edgeLists := make([][][2]int, len(jobs))
	for i, j := range jobs {
		nodeCounts[i] = j.nodes
		edgeLists[i] = j.edges
	}

	results, err := be.BatchedMotifCounts(mode, size, nodeCounts, edgeLists)
	if err != nil {
		c.engineFailed("error")
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	if len(results) != len(jobs) {
		c.engineFailed("shape")
		return nil, engineFailure("got %d results for %d graphs", len(results), len(jobs))
	}
	for i, m := range results {
		if err := checkShape(mode, size, jobs[i], m); err != nil {
			c.engineFailed("shape")
			return nil, &BatchError{Index: i, Cause: err}
		}
	}
	return results, nil
}
