// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/conceptree/pkg/observability"
)

// Metrics holds the collectors. It implements observability.PipelineHooks,
// observability.CacheHooks and observability.ServerHooks.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	nodes         prometheus.Histogram
	visibleRows   prometheus.Histogram
	droppedNodes  prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. Passing a fresh
// prometheus.NewRegistry keeps tests independent of the global registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conceptree_stage_duration_seconds",
			Help:    "Duration of pipeline stages, labelled by stage.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conceptree_stage_errors_total",
			Help: "Failed pipeline stages, labelled by stage.",
		}, []string{"stage"}),
		nodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "conceptree_hierarchy_nodes",
			Help:    "Number of nodes in built hierarchies.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		visibleRows: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "conceptree_visible_rows",
			Help:    "Number of visible rows per resolution.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		droppedNodes: f.NewCounter(prometheus.CounterOpts{
			Name: "conceptree_layout_dropped_nodes_total",
			Help: "Nodes left out of layouts because they lie on or below a cycle.",
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conceptree_cache_events_total",
			Help: "Cache lookups and writes, labelled by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conceptree_cache_written_bytes_total",
			Help: "Bytes written to the cache, labelled by key type.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conceptree_http_requests_total",
			Help: "Served HTTP requests, labelled by method, route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conceptree_http_request_duration_seconds",
			Help:    "HTTP request latency, labelled by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Install registers m as the pipeline, cache and server hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, nodeCount int, d time.Duration, err error) {
	m.stage("build", d, err)
	if err == nil {
		m.nodes.Observe(float64(nodeCount))
	}
}

func (m *Metrics) OnResolveComplete(_ context.Context, _, visible int, d time.Duration, err error) {
	m.stage("resolve", d, err)
	if err == nil {
		m.visibleRows.Observe(float64(visible))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, dropped int, d time.Duration, err error) {
	m.stage("layout", d, err)
	m.droppedNodes.Add(float64(dropped))
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.stage("render_"+format, d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
