package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exports metrics through a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	usersRegistered  prometheus.Counter
	loginsFailed     prometheus.Counter
	resourcesCreated *prometheus.CounterVec
	resourcesDeleted *prometheus.CounterVec
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	assetUploads     *prometheus.CounterVec
	logosGenerated   prometheus.Counter
	rateLimited      prometheus.Counter
}

// NewPrometheus creates a recorder with Go runtime and process collectors registered.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandflow_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		usersRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "brandflow_users_registered_total",
				Help: "Total number of registered users",
			},
		),
		loginsFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "brandflow_logins_failed_total",
				Help: "Total number of rejected logins",
			},
		),
		resourcesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandflow_resources_created_total",
				Help: "Total number of created resources by kind",
			},
			[]string{"kind"},
		),
		resourcesDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandflow_resources_deleted_total",
				Help: "Total number of deleted resources by kind",
			},
			[]string{"kind"},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandflow_upstream_calls_total",
				Help: "Total number of third-party API calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandflow_upstream_call_duration_seconds",
				Help:    "Third-party API call duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
			},
			[]string{"provider"},
		),
		assetUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandflow_asset_uploads_total",
				Help: "Total number of asset uploads by status",
			},
			[]string{"status"},
		),
		logosGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "brandflow_logos_generated_total",
				Help: "Total number of generated logos",
			},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "brandflow_rate_limited_total",
				Help: "Total number of requests rejected by the AI rate limiter",
			},
		),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.httpRequests,
		p.httpDuration,
		p.usersRegistered,
		p.loginsFailed,
		p.resourcesCreated,
		p.resourcesDeleted,
		p.upstreamCalls,
		p.upstreamDuration,
		p.assetUploads,
		p.logosGenerated,
		p.rateLimited,
	)

	return p
}

// Handler returns the exposition handler for this recorder's registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// ObserveHTTPRequest implements Recorder.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncUserRegistered implements Recorder.
func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }

// IncLoginFailed implements Recorder.
func (p *PrometheusRecorder) IncLoginFailed() { p.loginsFailed.Inc() }

// IncResourceCreated implements Recorder.
func (p *PrometheusRecorder) IncResourceCreated(kind string) {
	p.resourcesCreated.WithLabelValues(kind).Inc()
}

// IncResourceDeleted implements Recorder.
func (p *PrometheusRecorder) IncResourceDeleted(kind string) {
	p.resourcesDeleted.WithLabelValues(kind).Inc()
}

// ObserveUpstreamCall implements Recorder.
func (p *PrometheusRecorder) ObserveUpstreamCall(provider, outcome string, duration time.Duration) {
	p.upstreamCalls.WithLabelValues(provider, outcome).Inc()
	p.upstreamDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// IncAssetUploaded implements Recorder.
func (p *PrometheusRecorder) IncAssetUploaded(status string) {
	p.assetUploads.WithLabelValues(status).Inc()
}

// IncLogoGenerated implements Recorder.
func (p *PrometheusRecorder) IncLogoGenerated() { p.logosGenerated.Inc() }

// IncRateLimited implements Recorder.
func (p *PrometheusRecorder) IncRateLimited() { p.rateLimited.Inc() }
