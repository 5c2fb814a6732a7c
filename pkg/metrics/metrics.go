// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestDuration tracks backend request duration.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_api_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "status"},
	)

	// APIRequestsTotal tracks total backend requests.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_api_requests_total",
			Help: "Total backend requests",
		},
		[]string{"operation", "status"},
	)

	// PollCyclesTotal tracks polling cycles per concern.
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_poll_cycles_total",
			Help: "Polling cycles executed",
		},
		[]string{"concern", "outcome"},
	)

	// MessagesSentTotal tracks outbound messages by payload type.
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_messages_sent_total",
			Help: "Outbound messages sent",
		},
		[]string{"type"},
	)

	// UploadBytesTotal tracks bytes uploaded to media storage.
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_upload_bytes_total",
			Help: "Bytes uploaded to media storage",
		},
		[]string{"kind"},
	)

	// RecordingSeconds tracks finished audio capture durations.
	RecordingSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "console_recording_seconds",
			Help:    "Finished audio recording duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// NewMessageCuesTotal tracks fired new-message cues.
	NewMessageCuesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_new_message_cues_total",
			Help: "New-message audible cues fired",
		},
	)
)

// RecordAPIRequest records metrics for one backend request.
func RecordAPIRequest(operation, status string, duration float64) {
	APIRequestDuration.WithLabelValues(operation, status).Observe(duration)
	APIRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordPollCycle records one polling cycle outcome.
func RecordPollCycle(concern, outcome string) {
	PollCyclesTotal.WithLabelValues(concern, outcome).Inc()
}
