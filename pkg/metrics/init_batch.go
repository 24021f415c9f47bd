package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBatchMetrics() {
	r.BatchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcount_batches_total",
			Help: "Total number of batched counting calls",
		},
		[]string{"mode", "path", "status"},
	)

	r.BatchSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbitcount_batch_graphs",
			Help:    "Number of graphs per batched call",
			Buckets: []float64{1, 2, 5, 10, 50, 100, 1000},
		},
	)

	r.BatchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitcount_batch_duration_seconds",
			Help:    "Batched counting duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0, 60.0, 600.0},
		},
		[]string{"mode", "path"},
	)

	r.BatchWorkers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_batch_workers",
			Help: "Worker goroutines used by the last parallel batch",
		},
	)
}
