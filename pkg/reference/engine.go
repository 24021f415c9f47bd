package reference

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/logging"
	"github.com/dd0wney/cluso-orbitcount/pkg/metrics"
	"github.com/google/uuid"
)

// Engine implements engine.Engine by writing the graph to a temporary input
// file, running a Runner and parsing its output file.
type Engine struct {
	runner     Runner
	workDir    string
	compressed bool
	logger     logging.Logger
	metrics    *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkDir sets the parent directory of per-run temporary directories.
func WithWorkDir(dir string) Option {
	return func(e *Engine) { e.workDir = dir }
}

// WithCompressedOutput asks the runner for a snappy-compressed output file.
// Only runners that write through CreateOutput, such as Baseline, support it.
func WithCompressedOutput() Option {
	return func(e *Engine) { e.compressed = true }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records every run in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = reg }
}

// NewEngine creates an engine backed by r.
func NewEngine(r Runner, opts ...Option) *Engine {
	e := &Engine{
		runner: r,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewExecEngine creates an engine that runs the executable at path.
func NewExecEngine(path string, opts ...Option) *Engine {
	return NewEngine(ExecRunner{Path: path}, opts...)
}

// MotifCounts implements engine.Engine.
func (e *Engine) MotifCounts(mode engine.Mode, size, nodeCount int, edges [][2]int) (*engine.Matrix, error) {
	if err := engine.Check(mode, size); err != nil {
		return nil, err
	}
	if e.runner == nil {
		return nil, errors.New("reference engine has no runner")
	}

	runID := uuid.NewString()
	log := e.logger.With(logging.Component("reference"), logging.String("run_id", runID))

	dir, err := os.MkdirTemp(e.workDir, "orbitcount-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "graph.in")
	output := filepath.Join(dir, "counts.out")
	if e.compressed {
		output += CompressedSuffix
	}

	if err := writeInput(input, nodeCount, edges); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	timer := logging.StartTimer(log, "reference run",
		logging.Mode(string(mode)), logging.Size(size), logging.Nodes(nodeCount), logging.Edges(len(edges)))
	err = e.runner.Run(mode, size, input, output)
	if e.metrics != nil {
		e.metrics.RecordReferenceRun(err)
	}
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("reference run %s: %w", runID, err)
	}
	timer.End()

	m, err := readOutput(output, engine.ExpectedRows(mode, nodeCount, len(edges)), engine.NumOrbits(mode, size))
	if err != nil {
		return nil, fmt.Errorf("reference run %s: read output: %w", runID, err)
	}
	return m, nil
}

func writeInput(path string, nodeCount int, edges [][2]int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteEdgeList(f, nodeCount, edges); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readOutput(path string, rows, cols int) (*engine.Matrix, error) {
	r, err := OpenOutput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadCounts(r, rows, cols)
}
