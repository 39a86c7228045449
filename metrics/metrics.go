// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SMSRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_requests_total",
			Help: "Inbound SMS webhooks by reply outcome",
		},
		[]string{"outcome"},
	)

	SchedulerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_call_duration_seconds",
			Help:    "Duration of calls to the scheduling provider in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "result"},
	)
)

// ObserveSchedulerCall records one provider call that began at start.
func ObserveSchedulerCall(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SchedulerCallDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}
