package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_crm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionsAssignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_subscriptions_assigned_total",
			Help: "Total number of subscriptions and day passes assigned",
		},
		[]string{"kind", "payment_method"},
	)

	AssignmentConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_assignment_conflicts_total",
			Help: "Assignments rejected because the user already had an active subscription",
		},
		[]string{"kind"},
	)

	PaymentsAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_payments_amount_total",
			Help: "Sum of recorded payment amounts",
		},
		[]string{"source"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_check_ins_total",
			Help: "Total number of attendance check-ins",
		},
		[]string{"status"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitness_crm_subscriptions_expired_total",
			Help: "Subscriptions flipped inactive by the expiry sweep",
		},
	)

	DashboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_dashboard_cache_total",
			Help: "Dashboard cache lookups by view and result",
		},
		[]string{"view", "result"},
	)

	RemindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_crm_reminders_sent_total",
			Help: "Total number of expiry reminders processed",
		},
		[]string{"status"},
	)

	ReminderQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitness_crm_reminder_queue_length",
			Help: "Current length of the reminder queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAssignment(kind, paymentMethod string, amount int64) {
	SubscriptionsAssignedTotal.WithLabelValues(kind, paymentMethod).Inc()
	PaymentsAmountTotal.WithLabelValues(kind).Add(float64(amount))
}

func RecordAssignmentConflict(kind string) {
	AssignmentConflictsTotal.WithLabelValues(kind).Inc()
}

func RecordCheckIn(status string) {
	CheckInsTotal.WithLabelValues(status).Inc()
}

func RecordExpired(n int) {
	SubscriptionsExpiredTotal.Add(float64(n))
}

// RecordCacheLookup records hit, miss or error for a dashboard view.
func RecordCacheLookup(view, result string) {
	DashboardCacheTotal.WithLabelValues(view, result).Inc()
}

func RecordReminder(status string) {
	RemindersSentTotal.WithLabelValues(status).Inc()
}
