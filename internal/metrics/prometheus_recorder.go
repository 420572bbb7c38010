package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "navmanifest"

// PrometheusRecorder implements Recorder on a private registry.
type PrometheusRecorder struct {
	reg            *prom.Registry
	reloadDuration *prom.HistogramVec
	reloads        *prom.CounterVec
	lastReload     prom.Gauge
	manifestSize   *prom.GaugeVec
	httpDuration   *prom.HistogramVec
	httpRequests   *prom.CounterVec
	renderCache    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics. A nil registry
// gets a fresh one with the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	pr := &PrometheusRecorder{
		reg: reg,
		reloadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of manifest reloads",
			Buckets:   prom.DefBuckets,
		}, []string{"trigger"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Manifest reloads by trigger and result",
		}, []string{"trigger", "result"}),
		lastReload: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_reload_timestamp_seconds",
			Help:      "Unix time of the last successful reload",
		}),
		manifestSize: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_entries",
			Help:      "Size of the served manifest by kind",
		}, []string{"kind"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		renderCache: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_lookups_total",
			Help:      "Render cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.reloadDuration, pr.reloads, pr.lastReload, pr.manifestSize, pr.httpDuration, pr.httpRequests, pr.renderCache)
	return pr
}

func (p *PrometheusRecorder) ObserveReload(trigger string, d time.Duration, result ResultLabel) {
	p.reloadDuration.WithLabelValues(trigger).Observe(d.Seconds())
	p.reloads.WithLabelValues(trigger, string(result)).Inc()
	if result == ResultSuccess {
		p.lastReload.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) SetManifestSize(sidebars, groups, docRefs int) {
	p.manifestSize.WithLabelValues("sidebars").Set(float64(sidebars))
	p.manifestSize.WithLabelValues("groups").Set(float64(groups))
	p.manifestSize.WithLabelValues("doc_refs").Set(float64(docRefs))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	p.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) IncRenderCache(hit bool) {
	res := "miss"
	if hit {
		res = "hit"
	}
	p.renderCache.WithLabelValues(res).Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
