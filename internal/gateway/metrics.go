package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dohr-michael/promptdna/internal/events"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	analyses  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	wsClients prometheus.Gauge
	tokens    *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptdna",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptdna",
			Name:      "analyses_total",
			Help:      "Analyses by provider and outcome.",
		}, []string{"provider", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "promptdna",
			Name:      "analysis_duration_seconds",
			Help:      "Provider latency per analysis.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "promptdna",
			Name:      "ws_clients",
			Help:      "Connected live feed clients.",
		}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptdna",
			Name:      "model_tokens_total",
			Help:      "Tokens reported by model providers, by direction.",
		}, []string{"provider", "direction"}),
	}
}

// TrackModelCalls counts the token usage carried by model.call events.
// The returned func unsubscribes.
func (m *Metrics) TrackModelCalls(bus *events.Bus) func() {
	if m == nil || bus == nil {
		return func() {}
	}
	return bus.Subscribe(func(e events.Event) {
		p, ok := events.ExtractPayload[events.ModelCallPayload](e)
		if !ok || p.Phase != "response" {
			return
		}
		m.tokens.WithLabelValues(p.Provider, "in").Add(float64(p.TokensIn))
		m.tokens.WithLabelValues(p.Provider, "out").Add(float64(p.TokensOut))
	}, events.EventModelCall)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one provider call.
func (m *Metrics) ObserveAnalysis(provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.analyses.WithLabelValues(provider, outcome).Inc()
	m.duration.WithLabelValues(provider).Observe(d.Seconds())
}

// SetWSClients updates the live feed client gauge.
func (m *Metrics) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}
