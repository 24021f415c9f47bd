package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for orbit counting
type Registry struct {
	// Counting call metrics
	CountsTotal        *prometheus.CounterVec
	CountDuration      *prometheus.HistogramVec
	CountErrorsTotal   *prometheus.CounterVec
	GraphNodes         *prometheus.HistogramVec
	GraphEdges         *prometheus.HistogramVec
	SubgraphsVisited   *prometheus.CounterVec
	EngineFailures     *prometheus.CounterVec
	CountsInFlight     prometheus.Gauge
	ReferenceRunsTotal *prometheus.CounterVec

	// Batch metrics
	BatchesTotal  *prometheus.CounterVec
	BatchSize     prometheus.Histogram
	BatchDuration *prometheus.HistogramVec
	BatchWorkers  prometheus.Gauge

	// Process metrics
	RunSeconds     prometheus.Gauge
	Goroutines     prometheus.Gauge
	HeapAllocBytes prometheus.Gauge
	HeapObjects    prometheus.Gauge
	GCCycles       prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.Mutex
}

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
