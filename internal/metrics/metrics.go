// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/labyrinth/pkg/observability"
)

const namespace = "labyrinth"

// Metrics holds every collector. It implements
// [observability.PipelineHooks], [observability.CacheHooks] and
// [observability.HTTPHooks].
type Metrics struct {
	gatherer prometheus.Gatherer

	generateTotal    *prometheus.CounterVec
	generateDuration prometheus.Histogram

	solveTotal    *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	solveSteps    *prometheus.HistogramVec

	renderTotal    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sessions     prometheus.Gauge
}

// New registers the collectors with reg. Pass a fresh
// prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		generateTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_total",
			Help:      "Mazes generated, by result",
		}, []string{"result"}),
		generateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Maze generation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}),

		solveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_total",
			Help:      "Searches run, by heuristic and final state",
		}, []string{"heuristic", "state"}),
		solveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"heuristic"}),
		solveSteps: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_steps",
			Help:      "Expansions per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"heuristic"}),

		renderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Frames rendered, by format and result",
		}, []string{"format", "result"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Frame render duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"format"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by stage",
		}, []string{"stage"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by stage",
		}, []string{"stage"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by stage",
		}, []string{"stage"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live stepping sessions",
		}),
	}
}

// Register installs m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnGenerateStart implements observability.PipelineHooks.
func (m *Metrics) OnGenerateStart(context.Context, int, int) {}

// OnGenerateComplete implements observability.PipelineHooks.
func (m *Metrics) OnGenerateComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	m.generateTotal.WithLabelValues(result(err)).Inc()
	m.generateDuration.Observe(d.Seconds())
}

// OnSolveStart implements observability.PipelineHooks.
func (m *Metrics) OnSolveStart(context.Context, string, int) {}

// OnSolveComplete implements observability.PipelineHooks.
func (m *Metrics) OnSolveComplete(_ context.Context, heuristic, state string, steps int, d time.Duration, err error) {
	if err != nil {
		state = "error"
	}
	m.solveTotal.WithLabelValues(heuristic, state).Inc()
	m.solveDuration.WithLabelValues(heuristic).Observe(d.Seconds())
	m.solveSteps.WithLabelValues(heuristic).Observe(float64(steps))
}

// OnRenderStart implements observability.PipelineHooks.
func (m *Metrics) OnRenderStart(context.Context, string) {}

// OnRenderComplete implements observability.PipelineHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.renderTotal.WithLabelValues(format, result(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, stage string) {
	m.cacheHits.WithLabelValues(stage).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, stage string) {
	m.cacheMisses.WithLabelValues(stage).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, stage string, size int) {
	m.cacheBytes.WithLabelValues(stage).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnSessionCount implements observability.HTTPHooks.
func (m *Metrics) OnSessionCount(_ context.Context, n int) {
	m.sessions.Set(float64(n))
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
