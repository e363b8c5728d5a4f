package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

// MetricsService owns the Prometheus registry and keeps plain counters for the
// JSON snapshot served to admins.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	chatbotQueries  *prometheus.CounterVec
	scrapeRuns      *prometheus.CounterVec
	emailsSent      *prometheus.CounterVec
	documents       *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	chatbotCount         uint64
	scrapeCount          uint64
	emailCount           uint64
}

const metricsNamespace = "campus_assistant"

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	m := &MetricsService{registry: registry}

	httpLabels := []string{"method", "path", "status"}
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name: "request_duration_seconds", Help: "HTTP request latency by route.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
	}, httpLabels)
	m.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name: "requests_total", Help: "HTTP requests by route and status.",
	}, httpLabels)

	m.cacheLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "cache",
		Name: "read_seconds", Help: "Redis read latency.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	m.cacheWrite = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "cache",
		Name: "write_seconds", Help: "Redis write latency.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	m.cacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: "cache",
		Name: "hit_ratio", Help: "Dashboard cache hits over lookups since start.",
	})
	m.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "cache", Name: "hits_total", Help: "Cache hits.",
	})
	m.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "cache", Name: "misses_total", Help: "Cache misses.",
	})

	m.chatbotQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "chatbot",
		Name: "queries_total", Help: "Chatbot queries by viewer role and outcome.",
	}, []string{"role", "matched"})
	m.documents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "chatbot",
		Name: "documents_ingested_total", Help: "Ingestion attempts by source type and whether a row was inserted.",
	}, []string{"source", "inserted"})
	m.scrapeRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "scraper",
		Name: "runs_total", Help: "Scrape attempts by status.",
	}, []string{"status"})
	m.emailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "notifier",
		Name: "emails_total", Help: "Notice notification deliveries by result.",
	}, []string{"result"})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheHitRatio, m.cacheHits, m.cacheMisses,
		m.chatbotQueries, m.documents, m.scrapeRuns, m.emailsSent,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordChatbotQuery counts an answered or unanswered query.
func (m *MetricsService) RecordChatbotQuery(role models.UserRole, matched bool) {
	if m == nil {
		return
	}
	m.chatbotQueries.WithLabelValues(string(role), strconv.FormatBool(matched)).Inc()
	atomic.AddUint64(&m.chatbotCount, 1)
}

// RecordScrape counts one scrape attempt.
func (m *MetricsService) RecordScrape(status models.ScrapeStatus) {
	if m == nil {
		return
	}
	m.scrapeRuns.WithLabelValues(string(status)).Inc()
	atomic.AddUint64(&m.scrapeCount, 1)
}

// RecordEmails adds the outcome of one notification run.
func (m *MetricsService) RecordEmails(attempted, succeeded int) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues("sent").Add(float64(succeeded))
	if failed := attempted - succeeded; failed > 0 {
		m.emailsSent.WithLabelValues("failed").Add(float64(failed))
	}
	atomic.AddUint64(&m.emailCount, uint64(succeeded))
}

// RecordIngest counts one ingestion attempt.
func (m *MetricsService) RecordIngest(source models.DocumentSource, inserted bool) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(string(source), strconv.FormatBool(inserted)).Inc()
}

// Snapshot returns aggregated counters for the admin metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            cacheRatio,
		ChatbotQueries:           atomic.LoadUint64(&m.chatbotCount),
		ScrapeRuns:               atomic.LoadUint64(&m.scrapeCount),
		EmailsSent:               atomic.LoadUint64(&m.emailCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
