package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coparent"

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	MessageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "operations_total",
			Help:      "Message store operations by kind and outcome",
		},
		[]string{"operation", "status"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "AI analysis runs by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "provider_duration_seconds",
			Help:      "Latency of AI provider calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "files_total",
			Help:      "Uploaded files by content type and outcome",
		},
		[]string{"content_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "bytes_total",
			Help:      "Total bytes stored by successful uploads",
		},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	OCRDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ocr",
			Name:      "duration_seconds",
			Help:      "OCR extraction latency",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)
)

func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

func RecordMessageOperation(operation string, err error) {
	MessageOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func RecordAnalysis(provider string, durationSec float64, err error) {
	AnalysesTotal.WithLabelValues(provider, outcome(err)).Inc()
	if durationSec > 0 {
		ProviderLatency.WithLabelValues(provider).Observe(durationSec)
	}
}

func RecordUpload(contentType string, bytes int64, err error) {
	UploadsTotal.WithLabelValues(contentType, outcome(err)).Inc()
	if err == nil {
		UploadBytesTotal.Add(float64(bytes))
	}
}

func RecordStorageOperation(backend, operation string, err error) {
	StorageOperationsTotal.WithLabelValues(backend, operation, outcome(err)).Inc()
}

func RecordOCR(durationSec float64, err error) {
	OCRDuration.WithLabelValues(outcome(err)).Observe(durationSec)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
