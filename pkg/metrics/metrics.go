package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_total",
			Help: "Total number of message dispatches",
		},
		[]string{"channel", "status"}, // status: success, partial
	)

	DispatchRecipients = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_recipients_total",
			Help: "Total number of per-recipient delivery attempts",
		},
		[]string{"channel", "outcome"}, // outcome: sent, failed
	)

	ProviderSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_send_duration_seconds",
			Help:    "Delivery provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"provider", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordDispatch counts one completed dispatch with its aggregate status.
func RecordDispatch(channel, status string) {
	DispatchTotal.WithLabelValues(channel, status).Inc()
}

// RecordRecipientAttempt counts one per-recipient delivery attempt.
func RecordRecipientAttempt(channel string, success bool) {
	outcome := "sent"
	if !success {
		outcome = "failed"
	}
	DispatchRecipients.WithLabelValues(channel, outcome).Inc()
}

// RecordProviderSend records the latency of a single provider call.
func RecordProviderSend(provider, status string, duration time.Duration) {
	ProviderSendDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
