package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	datasetsBuilt  *prometheus.CounterVec
	rowsStored     *prometheus.CounterVec
	anomaliesFound *prometheus.GaugeVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		datasetsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_datasets_built_total",
				Help: "Datasets produced, labeled by source (generator, store)",
			},
			[]string{"source"},
		),
		rowsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_rows_stored_total",
				Help: "Dataset rows written to the backing store",
			},
			[]string{"backend"},
		),
		anomaliesFound: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "salespulse_anomalies_detected",
				Help: "Anomalies flagged in the most recent detection run",
			},
			[]string{"series"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salespulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDatasetBuilt records one dataset produced by the named source.
func (r *Recorder) RecordDatasetBuilt(source string) {
	r.datasetsBuilt.WithLabelValues(source).Inc()
}

// RecordRowsStored records rows persisted to a storage backend.
func (r *Recorder) RecordRowsStored(backend string, n int) {
	r.rowsStored.WithLabelValues(backend).Add(float64(n))
}

// RecordAnomalies records the anomaly count for a series.
func (r *Recorder) RecordAnomalies(series string, n int) {
	r.anomaliesFound.WithLabelValues(series).Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
