package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	oracleCalls      *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	searchIterations prometheus.Histogram
	searchDuration   prometheus.Histogram
	locatedSequence  prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		oracleCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerseek_oracle_calls_total",
				Help: "Total number of ledger node queries",
			},
			[]string{"method"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerseek_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		searchIterations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledgerseek_search_iterations",
				Help:    "Oracle round-trips per completed search",
				Buckets: []float64{1, 2, 4, 6, 8, 12, 16, 24, 32, 64},
			},
		),
		searchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledgerseek_search_duration_seconds",
				Help:    "Wall-clock duration of completed searches",
				Buckets: prometheus.DefBuckets,
			},
		),
		locatedSequence: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgerseek_last_located_sequence",
				Help: "Sequence number of the most recently located ledger",
			},
		),
	}
}

// RecordOracleCall records one query against the ledger node.
func (r *Recorder) RecordOracleCall(method string) {
	r.oracleCalls.WithLabelValues(method).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSearch records the size and duration of a completed search.
func (r *Recorder) RecordSearch(iterations int, d time.Duration) {
	r.searchIterations.Observe(float64(iterations))
	r.searchDuration.Observe(d.Seconds())
}

// RecordLocated records the sequence the latest search settled on.
func (r *Recorder) RecordLocated(sequence int64) {
	r.locatedSequence.Set(float64(sequence))
}
