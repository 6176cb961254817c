package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PaymentsInitiated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_initiated_total",
			Help: "Total number of payments initiated",
		},
		[]string{"method"},
	)

	PaymentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_completed_total",
			Help: "Total number of payments confirmed as completed",
		},
		[]string{"method"},
	)

	ConfirmationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_confirmation_duration_seconds",
			Help:    "Time between payment initiation and confirmation",
			Buckets: []float64{0.5, 1, 2, 3, 5, 8, 13, 30},
		},
	)

	ConfirmationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_confirmation_retries_total",
			Help: "Total number of retried confirmation writes",
		},
	)

	StaleProcessingPayments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "payments_stale_processing",
			Help: "Payments stuck in processing past the confirmation window",
		},
	)

	NotificationsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of notifications pushed to clients",
		},
	)
)

func init() {
	prometheus.MustRegister(PaymentsInitiated)
	prometheus.MustRegister(PaymentsCompleted)
	prometheus.MustRegister(ConfirmationDuration)
	prometheus.MustRegister(ConfirmationRetries)
	prometheus.MustRegister(StaleProcessingPayments)
	prometheus.MustRegister(NotificationsPublished)
}
