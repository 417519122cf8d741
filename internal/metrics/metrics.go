package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation sources.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
	SourceEmpty    = "empty"
)

// unmatchedEndpoint labels requests no route matched, keeping label
// cardinality bounded.
const unmatchedEndpoint = "unmatched"

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Generations     *prometheus.CounterVec
	LLMDuration     *prometheus.HistogramVec
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnpath_generations_total",
				Help: "Generated artifacts by kind, source and fallback reason",
			},
			[]string{"kind", "source", "reason"},
		),
		LLMDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "learnpath_llm_request_duration_seconds",
				Help:    "Duration of calls to the language model",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"kind", "outcome"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
	}

	m.registry.MustRegister(
		m.Generations,
		m.LLMDuration,
		m.RequestCounter,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGeneration counts one generated artifact. reason is empty for
// model-derived results.
func (m *Metrics) ObserveGeneration(kind, source, reason string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(kind, source, reason).Inc()
}

// ObserveLLM records the duration of one language model call.
func (m *Metrics) ObserveLLM(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.LLMDuration.WithLabelValues(kind, outcome).Observe(d.Seconds())
}

// Middleware records request counts and durations labelled by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := unmatchedEndpoint
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
