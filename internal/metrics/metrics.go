// Package metrics регистрирует метрики prometheus портала и воркеров напоминаний.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов. Нулевое значение *Metrics (nil) безопасно: методы ничего не делают.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	scans           *prometheus.CounterVec
	orders          *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	reminders       *prometheus.CounterVec
}

// New регистрирует коллекторы в registry.
func New(registry *prometheus.Registry) *Metrics {
	f := promauto.With(registry)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "checkin_scans_total",
			Help: "Kiosk scans by result",
		}, []string{"result"}),
		orders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "store_orders_total",
			Help: "Store orders by buyer role",
		}, []string{"role"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "In-app notifications inserted by kind",
		}, []string{"kind"}),
		reminders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_published_total",
			Help: "Reminder emails published to the queue by kind",
		}, []string{"kind"}),
	}
}

// ObserveRequest учитывает HTTP запрос.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncScan учитывает результат сканирования: valid, invalid или staff.
func (m *Metrics) IncScan(result string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

// IncOrder учитывает созданный заказ.
func (m *Metrics) IncOrder(role string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(role).Inc()
}

// AddNotifications учитывает вставленные уведомления.
func (m *Metrics) AddNotifications(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notifications.WithLabelValues(kind).Add(float64(n))
}

// IncReminder учитывает опубликованное напоминание.
func (m *Metrics) IncReminder(kind string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(kind).Inc()
}
