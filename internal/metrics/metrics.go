package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_operations_total",
			Help: "Total number of shopping session operations",
		},
		[]string{"operation", "status"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Number of open shopping sessions",
		},
	)

	ordersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	orderTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_order_total_rupiah",
			Help:    "Order totals in rupiah",
			Buckets: []float64{250000, 500000, 1000000, 2500000, 5000000, 10000000},
		},
	)

	notificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Notifications emitted by sessions",
		},
		[]string{"kind"},
	)
)

// RecordOperation counts a session command.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	sessionOperations.WithLabelValues(operation, status).Inc()
}

func SessionOpened() { activeSessions.Inc() }
func SessionClosed() { activeSessions.Dec() }

// OrderPlaced records a completed checkout.
func OrderPlaced(total int64) {
	ordersPlaced.Inc()
	orderTotal.Observe(float64(total))
}

func NotificationPublished(kind string) {
	notificationsPublished.WithLabelValues(kind).Inc()
}
