// Package metrics defines the Prometheus counters for report activity.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without instrumentation in tests and CLI commands.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicreporter"

// Notification kinds.
const (
	KindConfirmation = "confirmation"
	KindStatusUpdate = "status_update"
)

// Notification results.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type Metrics struct {
	// ReportsCreated counts submitted reports. Labels: category, priority
	ReportsCreated *prometheus.CounterVec

	// StatusUpdates counts staff status changes. Labels: status
	StatusUpdates *prometheus.CounterVec

	// Notifications counts email attempts. Labels: kind, result
	Notifications *prometheus.CounterVec

	// HTTPRequests counts handled requests. Labels: method, route, code
	HTTPRequests *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_created_total",
			Help:      "Issue reports submitted, by category and computed priority",
		}, []string{"category", "priority"}),

		StatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_updates_total",
			Help:      "Report status updates, by target status",
		}, []string{"status"}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Reporter email notifications, by kind and result",
		}, []string{"kind", "result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status code",
		}, []string{"method", "route", "code"}),
	}
}

func (m *Metrics) RecordReportCreated(category, priority string) {
	if m == nil {
		return
	}
	m.ReportsCreated.WithLabelValues(category, priority).Inc()
}

func (m *Metrics) RecordStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordNotification(kind, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
