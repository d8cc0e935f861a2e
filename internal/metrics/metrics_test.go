package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncScan("valid")
	m.IncScan("valid")
	m.IncScan("invalid")
	m.IncOrder("coach")
	m.AddNotifications("info", 3)
	m.AddNotifications("info", 0)
	m.IncReminder("expire_7d")
	m.ObserveRequest("GET", "/api/v1/me", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scans.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("coach")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.notifications.WithLabelValues("info")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminders.WithLabelValues("expire_7d")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/me", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncScan("valid")
		m.IncOrder("member")
		m.AddNotifications("info", 1)
		m.IncReminder("sessions_low")
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
}
