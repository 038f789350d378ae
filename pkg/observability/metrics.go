package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wrapdoc"

// Metrics records hook events as Prometheus metrics. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks]; register it with each
// setter and serve [Metrics.Handler] on /metrics.
//
// Metrics uses its own registry, so several instances (one per test) do
// not collide.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	documents     *prometheus.CounterVec
	pages         *prometheus.HistogramVec
	outputBytes   *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	upstream      *prometheus.HistogramVec
	upstreamErrs  *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, with the Go and
// process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stage_errors_total",
			Help: "Pipeline stage failures.",
		}, []string{"stage"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_total",
			Help: "Documents assembled, by type.",
		}, []string{"type"}),
		pages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "document_pages",
			Help:    "Pages per assembled document.",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		}, []string{"type"}),
		outputBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "output_bytes",
			Help:    "Size of encoded documents.",
			Buckets: prometheus.ExponentialBuckets(8<<10, 2, 8),
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_events_total",
			Help: "Cache lookups and writes, by namespace.",
		}, []string{"namespace", "event"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "upstream_request_duration_seconds",
			Help:    "Calls to external services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host", "status"}),
		upstreamErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_errors_total",
			Help: "Failed calls to external services.",
		}, []string{"host"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Time to serve requests, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stageDuration, m.stageErrors, m.documents, m.pages, m.outputBytes,
		m.cacheEvents, m.upstream, m.upstreamErrs, m.requests, m.requestTime,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request. route is the route pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	m.requestTime.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.stage("load", d, err)
}

func (m *Metrics) OnAssembleStart(context.Context, string) {}

func (m *Metrics) OnAssembleComplete(_ context.Context, docType string, pages int, d time.Duration, err error) {
	m.stage("assemble", d, err)
	if err == nil {
		m.documents.WithLabelValues(docType).Inc()
		m.pages.WithLabelValues(docType).Observe(float64(pages))
	}
}

func (m *Metrics) OnEncodeComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.stage("encode", d, err)
	if err == nil {
		m.outputBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnStoreComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stage("store", d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, ns string) {
	m.cacheEvents.WithLabelValues(ns, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, ns string) {
	m.cacheEvents.WithLabelValues(ns, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, ns string, _ int) {
	m.cacheEvents.WithLabelValues(ns, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstream.WithLabelValues(host, http.StatusText(status)).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrs.WithLabelValues(host).Inc()
}

// Install registers m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
