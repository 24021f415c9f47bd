package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges are sampled by UpdateProcessMetrics rather than on scrape,
// since a counting run usually writes its metrics once, on exit.
func (r *Registry) initProcessMetrics() {
	r.RunSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_run_seconds",
			Help: "Seconds since the registry was created",
		},
	)

	r.Goroutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_goroutines",
			Help: "Number of goroutines at the last sample",
		},
	)

	r.HeapAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_heap_alloc_bytes",
			Help: "Bytes of allocated heap objects at the last sample",
		},
	)

	r.HeapObjects = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_heap_objects",
			Help: "Number of allocated heap objects at the last sample",
		},
	)

	r.GCCycles = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcount_gc_cycles",
			Help: "Completed garbage collection cycles at the last sample",
		},
	)
}
