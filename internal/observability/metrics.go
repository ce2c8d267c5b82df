package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	signups         *prometheus.CounterVec
	modifications   *prometheus.CounterVec
	signIns         *prometheus.CounterVec
	meals           *prometheus.CounterVec
	waiverCallbacks *prometheus.CounterVec
	emails          *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		signups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup attempts by registrant kind and outcome.",
		}, []string{"kind", "outcome"}),
		modifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modifications_total",
			Help:      "Modify requests by registrant kind and outcome.",
		}, []string{"kind", "outcome"}),
		signIns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dayof_sign_ins_total",
			Help:      "Badge sign-ins by registrant kind.",
		}, []string{"kind"}),
		meals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dayof_meals_total",
			Help:      "Meal redemptions by slot and outcome.",
		}, []string{"slot", "outcome"}),
		waiverCallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waiver_callbacks_total",
			Help:      "Waiver callbacks by outcome.",
		}, []string{"outcome"}),
		emails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Outbound emails by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) IncSignup(kind, outcome string) {
	if m != nil {
		m.signups.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) IncModification(kind, outcome string) {
	if m != nil {
		m.modifications.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) IncSignIn(kind string) {
	if m != nil {
		m.signIns.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncMeal(slot int, outcome string) {
	if m != nil {
		m.meals.WithLabelValues(strconv.Itoa(slot), outcome).Inc()
	}
}

func (m *Metrics) IncWaiverCallback(outcome string) {
	if m != nil {
		m.waiverCallbacks.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncEmail(provider, outcome string) {
	if m != nil {
		m.emails.WithLabelValues(provider, outcome).Inc()
	}
}
