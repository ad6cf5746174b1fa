package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PushMetrics records outcomes of device push notification sends.
type PushMetrics struct {
	duration  *prometheus.HistogramVec
	delivered *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewPushMetrics registers the push delivery metrics on the provided registerer.
func NewPushMetrics(reg prometheus.Registerer) *PushMetrics {
	if reg == nil {
		return &PushMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "push_send_duration_seconds",
		Help:    "Duration of push notification sends in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "push_delivered_total",
		Help: "Push notifications accepted by the messaging backend.",
	}, []string{"event"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "push_skipped_total",
		Help: "Push notifications skipped before send, by reason.",
	}, []string{"event", "reason"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "push_failed_total",
		Help: "Push notifications rejected by the messaging backend.",
	}, []string{"event"})
	reg.MustRegister(duration, delivered, skipped, failed)
	return &PushMetrics{
		duration:  duration,
		delivered: delivered,
		skipped:   skipped,
		failed:    failed,
	}
}

// ObserveDuration records the send duration for the named event.
func (p *PushMetrics) ObserveDuration(event string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(event)).Observe(duration.Seconds())
}

// IncDelivered increments the delivered counter for the named event.
func (p *PushMetrics) IncDelivered(event string) {
	if p == nil || p.delivered == nil {
		return
	}
	p.delivered.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncSkipped increments the skipped counter for the named event and reason.
func (p *PushMetrics) IncSkipped(event, reason string) {
	if p == nil || p.skipped == nil {
		return
	}
	p.skipped.WithLabelValues(normalizeLabel(event), normalizeLabel(reason)).Inc()
}

// IncFailed increments the failure counter for the named event.
func (p *PushMetrics) IncFailed(event string) {
	if p == nil || p.failed == nil {
		return
	}
	p.failed.WithLabelValues(normalizeLabel(event)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
