package looks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks fingerprint cache hits.
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "looks_cache_hits_total",
		Help: "Total number of fingerprint cache hits",
	})

	// cacheMisses tracks fingerprint cache misses.
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "looks_cache_misses_total",
		Help: "Total number of fingerprint cache misses",
	})

	// cacheEvictions tracks entries evicted by capacity pressure or flushes.
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "looks_cache_evictions_total",
		Help: "Total number of fingerprint cache evictions",
	})

	// generationDuration tracks the time spent generating looks.
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "looks_generation_duration_seconds",
		Help:    "Time taken to generate looks for an anchor",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
	})

	// generationErrors tracks generation errors by kind.
	generationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "looks_generation_errors_total",
		Help: "Total number of generation errors by kind",
	}, []string{"kind"}) // kind: anchor_not_found, invalid_request, store_unavailable, internal

	// storeErrors tracks catalog store failures by store.
	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "looks_store_errors_total",
		Help: "Total number of catalog store errors by store",
	}, []string{"store"}) // store: products, edges, precomputed

	// candidatePoolSize tracks the filtered candidate pool size.
	candidatePoolSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "looks_candidate_pool_size",
		Help:    "Number of candidates surviving validity filtering",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
	})

	// looksGenerated tracks how many looks a request produced.
	looksGenerated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "looks_generated_count",
		Help:    "Number of looks returned per generation request",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})

	// lookCoherence tracks the coherence distribution of emitted looks.
	lookCoherence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "looks_coherence_score",
		Help:    "Coherence score of emitted looks",
		Buckets: []float64{0.2, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// MetricsRecorder provides methods to record look generation metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordCacheHit records a fingerprint cache hit.
func (m *MetricsRecorder) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records a fingerprint cache miss.
func (m *MetricsRecorder) RecordCacheMiss() {
	cacheMisses.Inc()
}

// RecordCacheEvictions records evicted cache entries.
func (m *MetricsRecorder) RecordCacheEvictions(n int) {
	cacheEvictions.Add(float64(n))
}

// RecordGeneration records a completed generation request.
func (m *MetricsRecorder) RecordGeneration(duration time.Duration, numLooks int) {
	generationDuration.Observe(duration.Seconds())
	looksGenerated.Observe(float64(numLooks))
}

// RecordGenerationError records a failed generation request.
func (m *MetricsRecorder) RecordGenerationError(kind string) {
	generationErrors.WithLabelValues(kind).Inc()
}

// RecordStoreError records a catalog store failure.
func (m *MetricsRecorder) RecordStoreError(store string) {
	storeErrors.WithLabelValues(store).Inc()
}

// RecordPoolSize records the filtered candidate pool size.
func (m *MetricsRecorder) RecordPoolSize(size int) {
	candidatePoolSize.Observe(float64(size))
}

// RecordCoherence records the coherence of an emitted look.
func (m *MetricsRecorder) RecordCoherence(score float64) {
	lookCoherence.Observe(score)
}
