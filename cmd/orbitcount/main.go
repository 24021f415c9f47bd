// Command orbitcount counts graphlet orbits of graphs stored in the reference
// edge list format and writes the counts in the reference output format.
//
//	orbitcount [flags] <node|edge> <4|5> <input> <output> [<input> <output> ...]
//
// With a single input/output pair it can stand in for an external reference
// executable. Several pairs are counted as one batch.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dd0wney/cluso-orbitcount/pkg/config"
	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/graph"
	"github.com/dd0wney/cluso-orbitcount/pkg/logging"
	"github.com/dd0wney/cluso-orbitcount/pkg/metrics"
	"github.com/dd0wney/cluso-orbitcount/pkg/orbits"
	"github.com/dd0wney/cluso-orbitcount/pkg/reference"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type options struct {
	configPath  string
	workers     int
	logLevel    string
	metricsFile string
	digest      bool

	mode  engine.Mode
	size  int
	pairs [][2]string // input, output
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "orbitcount: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "orbitcount: %v\n", err)
		return exitUsage
	}

	logger := logging.NewJSONLogger(stderr, cfg.LogLevel()).With(logging.Component("orbitcount"))
	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	runErr := count(opts, cfg, logger, reg)
	if runErr != nil {
		logger.Error("counting failed", logging.Error(runErr))
	}

	if reg != nil && cfg.Metrics.Textfile != "" {
		if err := reg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("failed to write metrics", logging.Path(cfg.Metrics.Textfile), logging.Error(err))
			return exitError
		}
	}

	if runErr != nil {
		return exitError
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("orbitcount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: orbitcount [flags] <node|edge> <4|5> <input> <output> [<input> <output> ...]")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&opts.workers, "workers", 0, "graphs counted concurrently in a batch (overrides config)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	fs.BoolVar(&opts.digest, "digest", false, "log a BLAKE2b digest of every count matrix")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) < 4 || len(rest)%2 != 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected mode, graphlet size and input/output pairs", errUsage)
	}

	mode, err := engine.ParseMode(rest[0])
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(rest[1])
	if err != nil {
		return nil, fmt.Errorf("graphlet size: %w", err)
	}
	if err := engine.Check(mode, size); err != nil {
		return nil, err
	}

	opts.mode, opts.size = mode, size
	for i := 2; i < len(rest); i += 2 {
		opts.pairs = append(opts.pairs, [2]string{rest[i], rest[i+1]})
	}
	return opts, nil
}

// loadConfig applies command-line flags on top of the file and environment.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.workers != 0 {
		cfg.Batch.Workers = opts.workers
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.metricsFile != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCounter(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *orbits.Counter {
	opts := []orbits.Option{
		orbits.WithLogger(logger),
		orbits.WithWorkers(cfg.Batch.Workers),
	}
	if reg != nil {
		opts = append(opts, orbits.WithMetrics(reg))
	}
	if cfg.Engine.Kind == config.EngineReference {
		refOpts := []reference.Option{
			reference.WithWorkDir(cfg.Engine.ReferenceWorkDir),
			reference.WithLogger(logger),
		}
		if reg != nil {
			refOpts = append(refOpts, reference.WithMetrics(reg))
		}
		opts = append(opts, orbits.WithEngine(reference.NewExecEngine(cfg.Engine.ReferencePath, refOpts...)))
	}
	return orbits.New(opts...)
}

func count(opts *options, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) error {
	graphs := make([]graph.Graph, len(opts.pairs))
	for i, p := range opts.pairs {
		g, err := readGraph(p[0])
		if err != nil {
			return err
		}
		graphs[i] = g
	}

	c := newCounter(cfg, logger, reg)
	var results []*engine.Matrix
	if len(graphs) == 1 {
		m, err := c.CountOrbits(opts.mode, opts.size, graphs[0], orbits.CountOptions{})
		if err != nil {
			return err
		}
		results = []*engine.Matrix{m}
	} else {
		var err error
		if results, err = c.BatchedCountOrbits(opts.mode, opts.size, graphs, nil); err != nil {
			return err
		}
	}

	for i, m := range results {
		out := opts.pairs[i][1]
		if err := writeCounts(out, m); err != nil {
			return err
		}
		fields := []logging.Field{logging.Path(out), logging.Int("rows", m.Rows), logging.Int("cols", m.Cols)}
		if opts.digest {
			d := m.Digest()
			fields = append(fields, logging.Digest(hex.EncodeToString(d[:])))
		}
		logger.Info("counts written", fields...)
	}
	return nil
}

func readGraph(path string) (graph.Graph, error) {
	f, err := reference.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, edges, err := reference.ReadEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return graph.FromIndexEdges(n, edges), nil
}

func writeCounts(path string, m *engine.Matrix) error {
	w, err := reference.CreateOutput(path)
	if err != nil {
		return err
	}
	if err := reference.WriteCounts(w, m); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Close()
}
