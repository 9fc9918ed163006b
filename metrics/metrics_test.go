package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReportCreated(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordReportCreated("potholes", "high")
	m.RecordReportCreated("potholes", "high")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsCreated.WithLabelValues("potholes", "high")))
}

func TestRecordNotificationAndRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordNotification(KindConfirmation, ResultFailed)
	m.RecordRequest("POST", "/api/reports", 201)
	m.RecordStatusUpdate("resolved")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("confirmation", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/reports", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusUpdates.WithLabelValues("resolved")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordReportCreated("other", "medium")
		m.RecordStatusUpdate("closed")
		m.RecordNotification(KindStatusUpdate, ResultSent)
		m.RecordRequest("GET", "/ping", 200)
	})
}
