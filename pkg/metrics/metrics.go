package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking and payment metrics
	BookingsCreated      prometheus.Counter
	BookingsCompensated  prometheus.Counter
	PaymentOrders        *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
	PaymentLatency       prometheus.Histogram

	// Chat streaming metrics
	ChatStreams       *prometheus.CounterVec
	ChatStreamLatency prometheus.Histogram
	ChatDeltas        prometheus.Counter

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Reconciliation metrics
	OrphanedReservationsSwept prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of pending_payment reservations created",
		}),
		BookingsCompensated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_compensated_total",
			Help:      "Total number of reservations deleted after payment failure or dismissal",
		}),
		PaymentOrders: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_orders_total",
			Help:      "Total number of processor order creations",
		}, []string{"status"}),
		PaymentVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Total number of payment signature verifications",
		}, []string{"result"}),
		PaymentLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_order_duration_seconds",
			Help:      "Time spent creating processor orders",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		ChatStreams: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_streams_total",
			Help:      "Total number of chat streaming sessions",
		}, []string{"status"}),
		ChatStreamLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_stream_duration_seconds",
			Help:      "Duration of chat streaming sessions",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		ChatDeltas: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_deltas_total",
			Help:      "Total number of content deltas relayed to clients",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OrphanedReservationsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_reservations_swept_total",
			Help:      "Total number of stale pending_payment rows removed by the reconciler",
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}
