// Package metrics provides Prometheus metrics for the analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speaksure"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	PredictionsTotal    prometheus.Counter
	PredictionsFailed   prometheus.Counter
	PredictionsActive   prometheus.Gauge
	PredictionDuration  prometheus.Histogram
	ChunksClassified    prometheus.Counter
	UploadsTotal        prometheus.Counter
	AdapterErrors       *prometheus.CounterVec
	AdapterLatency      *prometheus.HistogramVec
	AudioBytesProcessed prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of predict requests handled",
		}),
		PredictionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_failed_total",
			Help:      "Total number of predict requests that failed",
		}),
		PredictionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predictions_active",
			Help:      "Number of predict requests currently in flight",
		}),
		PredictionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of the predict pipeline in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		ChunksClassified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_classified_total",
			Help:      "Total number of audio chunks classified",
		}),
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of direct metadata uploads stored",
		}),
		AdapterErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_errors_total",
			Help:      "Total number of external adapter failures",
		}, []string{"adapter"}),
		AdapterLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adapter_latency_seconds",
			Help:      "Latency of external adapter calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"adapter"}),
		AudioBytesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_processed_total",
			Help:      "Total audio bytes accepted for analysis",
		}),
	}
}

// RecordPredictionStart records a predict request entering the pipeline.
func (m *Metrics) RecordPredictionStart(audioBytes int) {
	m.PredictionsTotal.Inc()
	m.PredictionsActive.Inc()
	m.AudioBytesProcessed.Add(float64(audioBytes))
}

// RecordPredictionEnd records a predict request leaving the pipeline.
func (m *Metrics) RecordPredictionEnd(success bool, durationSeconds float64) {
	m.PredictionsActive.Dec()
	m.PredictionDuration.Observe(durationSeconds)
	if !success {
		m.PredictionsFailed.Inc()
	}
}

// RecordChunks records classified audio chunks.
func (m *Metrics) RecordChunks(n int) {
	m.ChunksClassified.Add(float64(n))
}

// RecordUpload records a direct metadata upload.
func (m *Metrics) RecordUpload() {
	m.UploadsTotal.Inc()
}

// RecordAdapterCall records an external adapter call outcome.
func (m *Metrics) RecordAdapterCall(adapter string, err error, latencySeconds float64) {
	m.AdapterLatency.WithLabelValues(adapter).Observe(latencySeconds)
	if err != nil {
		m.AdapterErrors.WithLabelValues(adapter).Inc()
	}
}
