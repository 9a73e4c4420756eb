package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Image-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Total image uploads",
		},
		[]string{"content_type", "status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"content_type"},
	)

	// Object storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "storage_operations_total",
			Help:      "Total object storage operations",
		},
		[]string{"operation", "status"},
	)

	// Object storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "storage_duration_seconds",
			Help:      "Object storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// Embedding cache lookups
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "embedding_cache_lookups_total",
			Help:      "Embedding cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Embedding computations
	EmbeddingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "embedding_computations_total",
			Help:      "Total embedding computations",
		},
		[]string{"status"},
	)

	// Embedding computation duration
	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "embedding_duration_seconds",
			Help:      "Embedding computation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// Similarity queries
	SimilarityQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "similarity_queries_total",
			Help:      "Total similarity search queries",
		},
	)

	// Similarity query duration
	SimilarityDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "similarity_duration_seconds",
			Help:      "Similarity search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	// Background embedding job failures
	BackgroundJobFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "background_job_failures_total",
			Help:      "Background embedding jobs that failed",
		},
	)

	// Background embedding jobs dropped on a full queue
	BackgroundJobsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imagesim",
			Subsystem: "api",
			Name:      "background_jobs_dropped_total",
			Help:      "Background embedding jobs dropped because the queue was full",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records an image upload
func RecordUpload(contentType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

// RecordStorageOperation records an object storage operation
func RecordStorageOperation(operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordCacheLookup records an embedding cache lookup
func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordEmbedding records an embedding computation
func RecordEmbedding(status string, durationSec float64) {
	EmbeddingsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		EmbeddingDuration.Observe(durationSec)
	}
}

// RecordSimilarityQuery records a similarity search
func RecordSimilarityQuery(durationSec float64) {
	SimilarityQueriesTotal.Inc()
	SimilarityDuration.Observe(durationSec)
}
