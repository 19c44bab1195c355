package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// OutboxMetrics описывает публикацию событий из outbox.
type OutboxMetrics struct {
	publishAttempts  *prometheus.CounterVec
	pendingRecords   prometheus.Gauge
	oldestPendingAge prometheus.Gauge
}

// NewOutboxMetrics регистрирует метрики outbox в registerer (nil означает DefaultRegisterer).
func NewOutboxMetrics(registerer prometheus.Registerer) *OutboxMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OutboxMetrics{
		publishAttempts: register(registerer, "rhrh_outbox_publish_attempts_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rhrh_outbox_publish_attempts_total",
			Help: "Total number of outbox publish attempts grouped by result.",
		}, []string{"result"})),
		pendingRecords: register(registerer, "rhrh_outbox_pending_records", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rhrh_outbox_pending_records",
			Help: "Current number of pending records in the outbox.",
		})),
		oldestPendingAge: register(registerer, "rhrh_outbox_oldest_pending_age_seconds", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rhrh_outbox_oldest_pending_age_seconds",
			Help: "Age in seconds of the oldest pending outbox record.",
		})),
	}
}

// RecordPublish учитывает попытку публикации: sent, retry_error, failed, dlq_failed.
func (m *OutboxMetrics) RecordPublish(result string) {
	if m == nil {
		return
	}
	m.publishAttempts.WithLabelValues(result).Inc()
}

// SetBacklog обновляет размер и возраст backlog.
func (m *OutboxMetrics) SetBacklog(stats domain.OutboxStats, now time.Time) {
	if m == nil {
		return
	}
	m.pendingRecords.Set(float64(stats.PendingCount))
	if stats.PendingCount == 0 || stats.OldestPendingAt.IsZero() {
		m.oldestPendingAge.Set(0)
		return
	}
	age := now.Sub(stats.OldestPendingAt).Seconds()
	if age < 0 {
		age = 0
	}
	m.oldestPendingAge.Set(age)
}
