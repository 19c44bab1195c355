package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// StoreMetrics описывает изменения агрегата и работу хранилища снимков.
// Все методы допускают nil-получателя.
type StoreMetrics struct {
	mutations     *prometheus.CounterVec
	entities      *prometheus.GaugeVec
	resetDuration prometheus.Histogram
	saves         *prometheus.CounterVec
}

// NewStoreMetrics регистрирует метрики в registerer (nil означает DefaultRegisterer).
func NewStoreMetrics(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		mutations: register(registerer, "rhrh_store_mutations_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rhrh_store_mutations_total",
			Help: "Total number of store mutations grouped by entity kind, action and result.",
		}, []string{"kind", "action", "result"})),
		entities: register(registerer, "rhrh_store_entities", prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rhrh_store_entities",
			Help: "Current number of entities per collection.",
		}, []string{"kind"})),
		resetDuration: register(registerer, "rhrh_store_reset_duration_seconds", prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rhrh_store_reset_duration_seconds",
			Help:    "Duration of full store resets in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		})),
		saves: register(registerer, "rhrh_storage_saves_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rhrh_storage_saves_total",
			Help: "Total number of snapshot saves grouped by result.",
		}, []string{"result"})),
	}
}

// RecordMutation учитывает попытку изменения; err == nil означает успех.
func (m *StoreMetrics) RecordMutation(kind domain.Kind, action string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(string(kind), action, mutationResult(err)).Inc()
}

// SetEntityCount выставляет текущий размер коллекции kind.
func (m *StoreMetrics) SetEntityCount(kind domain.Kind, count int) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(string(kind)).Set(float64(count))
}

// ObserveReset записывает длительность полной замены данных.
func (m *StoreMetrics) ObserveReset(duration time.Duration) {
	if m == nil {
		return
	}
	m.resetDuration.Observe(duration.Seconds())
}

// RecordSave учитывает сохранение снимка.
func (m *StoreMetrics) RecordSave(err error) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(resultLabel(err)).Inc()
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsDuplicate(err):
		return "duplicate"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
