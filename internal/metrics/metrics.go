// Package metrics holds the prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docverifier"

// Outcome labels of view resolutions.
const (
	OutcomeResolved   = "resolved"
	OutcomeExpired    = "expired"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeDecryption = "decryption_blocked"
)

// Denial reasons of view requests.
const (
	ReasonQuota    = "quota_exceeded"
	ReasonNotFound = "not_found"
)

type Metrics struct {
	registry *prometheus.Registry

	ViewGrantsIssued    *prometheus.CounterVec
	ViewGrantsDenied    *prometheus.CounterVec
	ViewResolutions     *prometheus.CounterVec
	Uploads             *prometheus.CounterVec
	RateLimitRejections *prometheus.CounterVec
	PendingDocuments    prometheus.Gauge
}

// New registers every collector on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ViewGrantsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_grants_issued_total",
			Help:      "View grants issued, by requester role.",
		}, []string{"role"}),
		ViewGrantsDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_grants_denied_total",
			Help:      "View requests refused, by reason.",
		}, []string{"reason"}),
		ViewResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_resolutions_total",
			Help:      "View token resolutions, by outcome.",
		}, []string{"outcome"}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Document uploads, by whether validation passed.",
		}, []string{"valid"}),
		RateLimitRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_rejections_total",
			Help:      "Requests rejected by a rate limiter, by limiter name.",
		}, []string{"limiter"}),
		PendingDocuments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_pending_review",
			Help:      "Documents waiting for an administrator.",
		}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) GrantIssued(elevated bool) {
	role := "owner"
	if elevated {
		role = "admin"
	}
	m.ViewGrantsIssued.WithLabelValues(role).Inc()
}

func (m *Metrics) GrantDenied(reason string) {
	m.ViewGrantsDenied.WithLabelValues(reason).Inc()
}

func (m *Metrics) Resolution(outcome string) {
	m.ViewResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Upload(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	m.Uploads.WithLabelValues(label).Inc()
}

func (m *Metrics) RateLimited(limiter string) {
	m.RateLimitRejections.WithLabelValues(limiter).Inc()
}

func (m *Metrics) SetPending(n int) {
	m.PendingDocuments.Set(float64(n))
}
