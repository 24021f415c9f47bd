package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCountingMetrics() {
	r.CountsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_counts_total",
			Help: "Total number of single-graph orbit counting calls",
		},
		[]string{"mode", "size", "status"},
	)

	r.CountDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitcount_count_duration_seconds",
			Help:    "Orbit counting duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0, 60.0},
		},
		[]string{"mode", "size"},
	)

	r.CountErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_count_errors_total",
			Help: "Failed counting calls by error kind",
		},
		[]string{"mode", "kind"},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitcount_graph_nodes",
			Help:    "Number of nodes per counted graph",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
		[]string{"mode"},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitcount_graph_edges",
			Help:    "Number of edges per counted graph",
			Buckets: prometheus.ExponentialBuckets(10, 10, 7),
		},
		[]string{"mode"},
	)

	r.SubgraphsVisited = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_subgraphs_visited_total",
			Help: "Connected induced subgraphs enumerated by the embedded engine",
		},
		[]string{"mode", "size"},
	)

	r.EngineFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_engine_failures_total",
			Help: "Engine errors and malformed engine results",
		},
		[]string{"engine", "reason"},
	)

	r.CountsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_counts_in_flight",
			Help: "Counting calls currently executing",
		},
	)

	r.ReferenceRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_reference_runs_total",
			Help: "Invocations of an external counting executable",
		},
		[]string{"status"},
	)
}
