// Package metrics exposes Prometheus metrics for counting calls, batches and
// the counting process.
package metrics

import (
	"errors"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}

	r.initCountingMetrics()
	r.initBatchMetrics()
	r.initProcessMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// CountSample describes one finished single-graph counting call.
type CountSample struct {
	Mode      string
	Size      int
	Nodes     int
	Edges     int
	Subgraphs uint64
	Duration  time.Duration
	Err       error
	// Kind classifies Err, for example "self_loop" or "engine_failure".
	Kind string
}

// RecordCount records a single-graph counting call
func (r *Registry) RecordCount(s CountSample) {
	size := strconv.Itoa(s.Size)
	status := StatusSuccess
	if s.Err != nil {
		status = StatusError
		kind := s.Kind
		if kind == "" {
			kind = "unknown"
		}
		r.CountErrorsTotal.WithLabelValues(s.Mode, kind).Inc()
	}

	r.CountsTotal.WithLabelValues(s.Mode, size, status).Inc()
	r.CountDuration.WithLabelValues(s.Mode, size).Observe(s.Duration.Seconds())
	if s.Err != nil {
		return
	}
	r.GraphNodes.WithLabelValues(s.Mode).Observe(float64(s.Nodes))
	r.GraphEdges.WithLabelValues(s.Mode).Observe(float64(s.Edges))
	if s.Subgraphs > 0 {
		r.SubgraphsVisited.WithLabelValues(s.Mode, size).Add(float64(s.Subgraphs))
	}
}

// RecordEngineFailure records an engine error or a malformed engine result
func (r *Registry) RecordEngineFailure(engine, reason string) {
	r.EngineFailures.WithLabelValues(engine, reason).Inc()
}

// RecordReferenceRun records one invocation of an external counting process
func (r *Registry) RecordReferenceRun(err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.ReferenceRunsTotal.WithLabelValues(status).Inc()
}

// RecordBatch records a batched counting call.
// path is "batch_engine", "parallel" or "sequential".
func (r *Registry) RecordBatch(mode, path string, graphs int, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.BatchesTotal.WithLabelValues(mode, path, status).Inc()
	r.BatchSize.Observe(float64(graphs))
	r.BatchDuration.WithLabelValues(mode, path).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (r *Registry) TrackInFlight() func() {
	r.CountsInFlight.Inc()
	return r.CountsInFlight.Dec
}

// UpdateProcessMetrics samples the process gauges
func (r *Registry) UpdateProcessMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.RunSeconds.Set(time.Since(r.started).Seconds())
	r.Goroutines.Set(float64(runtime.NumGoroutine()))
	r.HeapAllocBytes.Set(float64(m.HeapAlloc))
	r.HeapObjects.Set(float64(m.HeapObjects))
	r.GCCycles.Set(float64(m.NumGC))
}

// WriteTextfile refreshes the system gauges and writes every metric to path
// in the Prometheus text format, for pickup by a node exporter textfile
// collector.
func (r *Registry) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}
	r.UpdateProcessMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
