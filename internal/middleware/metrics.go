package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

const namespace = "prism"

// Metrics holds the process metrics on a private registry. It also records
// orchestration outcomes.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	dimensionOutcomes *prometheus.CounterVec
	dimensionDuration *prometheus.HistogramVec
	synthesisOutcomes *prometheus.CounterVec
	synthesisDuration prometheus.Histogram
	analysesTotal     *prometheus.CounterVec
}

var _ domain.Recorder = (*Metrics)(nil)

// completion calls are bounded at 60s, so buckets stop a little above that
var llmBuckets = []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
		dimensionOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dimension_outcomes_total",
			Help:      "Settled dimension tasks by dimension and status",
		}, []string{"dimension", "status"}),
		dimensionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dimension_duration_seconds",
			Help:      "Dimension task duration in seconds",
			Buckets:   llmBuckets,
		}, []string{"dimension"}),
		synthesisOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_outcomes_total",
			Help:      "Synthesis stage results by status",
		}, []string{"status"}),
		synthesisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Synthesis stage duration in seconds",
			Buckets:   llmBuckets,
		}),
		analysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses started by source type",
		}, []string{"source"}),
	}
}

func (m *Metrics) ObserveDimension(o domain.DimensionOutcome) {
	m.dimensionOutcomes.WithLabelValues(o.Key, string(o.Status)).Inc()
	m.dimensionDuration.WithLabelValues(o.Key).Observe(o.Duration().Seconds())
}

func (m *Metrics) ObserveSynthesis(o domain.SynthesisOutcome, elapsed time.Duration) {
	m.synthesisOutcomes.WithLabelValues(string(o.Status)).Inc()
	m.synthesisDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAnalysis(source domain.SourceKind) {
	m.analysesTotal.WithLabelValues(string(source)).Inc()
}

// Middleware tracks request metrics. Routes are labelled by their chi
// pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		start := time.Now()
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
