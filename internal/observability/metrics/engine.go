package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// EngineMetrics tracks retrieval-engine throughput and latency. Prometheus
// instruments feed /metrics; the mutex-guarded running totals feed the
// analytics endpoint. Updates are guarded because the engine serves
// concurrent HTTP callers.
type EngineMetrics struct {
	service  string
	registry *prometheus.Registry

	ingestTotal    *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	queryTotal     *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	cacheEvents    *prometheus.CounterVec
	kbChunks       prometheus.Gauge

	mu                 sync.Mutex
	totalIngestions    int64
	totalQueries       int64
	ingestSecondsSum   float64
	querySecondsSum    float64
	queryCacheHits     int64
	documentCacheHits  int64
	storageWriteErrors int64
	embedFallbacks     int64
	knowledgeBaseSize  int64
}

func NewEngineMetrics(service string) *EngineMetrics {
	registry := prometheus.NewRegistry()

	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kre",
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total ingestion calls by outcome.",
		},
		[]string{"service", "outcome"},
	)
	ingestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "kre",
			Subsystem:   "ingest",
			Name:        "duration_seconds",
			Help:        "Ingestion pipeline duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kre",
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total retrieval queries by outcome.",
		},
		[]string{"service", "outcome"},
	)
	queryDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "kre",
			Subsystem:   "query",
			Name:        "duration_seconds",
			Help:        "Query engine duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	cacheEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kre",
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache lookups by cache tier and result.",
		},
		[]string{"service", "cache", "result"},
	)
	kbChunks := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "kre",
			Subsystem:   "knowledge_base",
			Name:        "chunks",
			Help:        "Number of chunks written to the vector store.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	registry.MustRegister(ingestTotal, ingestDuration, queryTotal, queryDuration, cacheEvents, kbChunks)

	return &EngineMetrics{
		service:        service,
		registry:       registry,
		ingestTotal:    ingestTotal,
		ingestDuration: ingestDuration,
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		cacheEvents:    cacheEvents,
		kbChunks:       kbChunks,
	}
}

func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *EngineMetrics) ObserveIngest(duration time.Duration, cached bool, storageDegraded bool) {
	outcome := "stored"
	switch {
	case cached:
		outcome = "cached"
	case storageDegraded:
		outcome = "degraded"
	}
	m.ingestTotal.WithLabelValues(m.service, outcome).Inc()
	m.ingestDuration.Observe(duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalIngestions++
	m.ingestSecondsSum += duration.Seconds()
	if cached {
		m.documentCacheHits++
		m.cacheEvents.WithLabelValues(m.service, "document", "hit").Inc()
	} else {
		m.cacheEvents.WithLabelValues(m.service, "document", "miss").Inc()
	}
	if storageDegraded {
		m.storageWriteErrors++
	}
}

func (m *EngineMetrics) ObserveQuery(duration time.Duration, cacheHit bool) {
	outcome := "computed"
	if cacheHit {
		outcome = "cache_hit"
	}
	m.queryTotal.WithLabelValues(m.service, outcome).Inc()
	m.queryDuration.Observe(duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalQueries++
	m.querySecondsSum += duration.Seconds()
	if cacheHit {
		m.queryCacheHits++
		m.cacheEvents.WithLabelValues(m.service, "query", "hit").Inc()
	} else {
		m.cacheEvents.WithLabelValues(m.service, "query", "miss").Inc()
	}
}

func (m *EngineMetrics) ObserveEmbeddingFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedFallbacks++
}

// AddKnowledgeBaseChunks grows the knowledge-base-size counter after a batch
// write.
func (m *EngineMetrics) AddKnowledgeBaseChunks(n int) {
	m.kbChunks.Add(float64(n))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.knowledgeBaseSize += int64(n)
}

// Snapshot returns the running totals as analytics performance metrics.
func (m *EngineMetrics) Snapshot() domain.PerformanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := domain.PerformanceMetrics{
		TotalIngestions:    m.totalIngestions,
		TotalQueries:       m.totalQueries,
		DocumentCacheHits:  m.documentCacheHits,
		StorageWriteErrors: m.storageWriteErrors,
		EmbeddingFallbacks: m.embedFallbacks,
	}
	if m.totalIngestions > 0 {
		out.AvgIngestSeconds = m.ingestSecondsSum / float64(m.totalIngestions)
	}
	if m.totalQueries > 0 {
		out.AvgQuerySeconds = m.querySecondsSum / float64(m.totalQueries)
		out.QueryCacheHitRate = float64(m.queryCacheHits) / float64(m.totalQueries)
	}
	return out
}

// KnowledgeBaseSize reports the chunk counter for analytics.
func (m *EngineMetrics) KnowledgeBaseSize() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.knowledgeBaseSize
}
