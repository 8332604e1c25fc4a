package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/cyclograph/pkg/observability"
)

var (
	// generateTotal counts graph generations by outcome.
	generateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclograph_generate_total",
			Help: "Total number of graph generations",
		},
		[]string{"status"},
	)

	// searchTotal counts cycle searches by outcome.
	searchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclograph_search_total",
			Help: "Total number of cycle searches",
		},
		[]string{"status"},
	)

	// searchDuration tracks cycle search latency.
	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyclograph_search_duration_seconds",
			Help:    "Cycle search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// searchSteps tracks the matrix power at which searches terminate.
	searchSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyclograph_search_steps",
			Help:    "Matrix power at which a search terminated",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// renderDuration tracks artifact rendering latency.
	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyclograph_render_duration_seconds",
			Help:    "Artifact render duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// cacheOps counts cache hits, misses, and writes per key type.
	cacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclograph_cache_ops_total",
			Help: "Total cache operations by key type and result",
		},
		[]string{"key_type", "op"},
	)
)

func init() {
	prometheus.MustRegister(generateTotal)
	prometheus.MustRegister(searchTotal)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchSteps)
	prometheus.MustRegister(renderDuration)
	prometheus.MustRegister(cacheOps)
}

// RegisterMetrics installs Prometheus-backed observability hooks. Call once
// at startup before serving traffic.
func RegisterMetrics() {
	observability.SetPipelineHooks(metricsPipelineHooks{})
	observability.SetCacheHooks(metricsCacheHooks{})
}

// metricsPipelineHooks feeds pipeline stage events into Prometheus.
type metricsPipelineHooks struct {
	observability.NoopPipelineHooks
}

func (metricsPipelineHooks) OnGenerateComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	generateTotal.WithLabelValues(statusLabel(err)).Inc()
}

func (metricsPipelineHooks) OnSearchComplete(_ context.Context, found bool, step int, duration time.Duration, err error) {
	searchTotal.WithLabelValues(searchStatus(found, err)).Inc()
	if err == nil {
		searchDuration.Observe(duration.Seconds())
		searchSteps.Observe(float64(step))
	}
}

func (metricsPipelineHooks) OnRenderComplete(_ context.Context, _ []string, duration time.Duration, err error) {
	if err == nil {
		renderDuration.Observe(duration.Seconds())
	}
}

// metricsCacheHooks feeds cache events into Prometheus.
type metricsCacheHooks struct{}

func (metricsCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (metricsCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (metricsCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	cacheOps.WithLabelValues(keyType, "set").Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func searchStatus(found bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case found:
		return "found"
	default:
		return "not_found"
	}
}
