package web

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsPrefix = "intake_"

type metrics struct {
	requests         *prometheus.CounterVec
	submissions      *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "submissions_total",
				Help: "Applications submitted, counted once per selected county",
			},
			[]string{"county"},
		),
		validationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "validation_errors_total",
				Help: "Form posts rejected by validation",
			},
			[]string{"form"},
		),
	}
}

func (m *metrics) observeRequest(method, route string, status int) {
	m.requests.With(prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}).Inc()
}

func (m *metrics) recordSubmission(counties []string) {
	for _, c := range counties {
		m.submissions.WithLabelValues(c).Inc()
	}
}

func (m *metrics) recordValidationError(form string) {
	m.validationErrors.WithLabelValues(form).Inc()
}
