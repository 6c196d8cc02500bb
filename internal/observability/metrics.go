package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/token-service/internal/domain"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
)

// Metrics holds token and request counters in a private registry.
// It satisfies auth.Observer.
type Metrics struct {
	registry      *prometheus.Registry
	tokensIssued  *prometheus.CounterVec
	tokensDecoded *prometheus.CounterVec
	requests      *prometheus.CounterVec
	errors        *prometheus.CounterVec
}

// NewMetrics initializes metrics storage under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Tokens issued, by token type.",
		}, []string{"type"}),
		tokensDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_decoded_total",
			Help:      "Token verifications, by outcome and token type.",
		}, []string{"outcome", "type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests seen by the auth middleware stack.",
		}, []string{"method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP errors rendered, by error code.",
		}, []string{"code"}),
	}
	m.registry.MustRegister(m.tokensIssued, m.tokensDecoded, m.requests, m.errors)
	return m
}

// Registry exposes the collectors for a host application to serve.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TokenIssued(tokenType domain.TokenType) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(string(tokenType)).Inc()
}

func (m *Metrics) TokenAccepted(tokenType domain.TokenType) {
	if m == nil {
		return
	}
	m.tokensDecoded.WithLabelValues(outcomeAccepted, string(tokenType)).Inc()
}

func (m *Metrics) TokenRejected() {
	if m == nil {
		return
	}
	m.tokensDecoded.WithLabelValues(outcomeRejected, "").Inc()
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(method string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(code).Inc()
}
