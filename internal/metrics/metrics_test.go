package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

func TestStoreMetrics_RecordMutation(t *testing.T) {
	m := NewStoreMetrics(prometheus.NewRegistry())

	m.RecordMutation(domain.KindCustomer, "add", nil)
	m.RecordMutation(domain.KindCustomer, "add", fmt.Errorf("customers %q: %w", "A", domain.ErrDuplicateEntity))
	m.RecordMutation(domain.KindSupplier, "remove", domain.ErrEntityNotFound)
	m.RecordMutation(domain.KindSupplier, "remove", errors.New("boom"))

	cases := []struct {
		kind, action, result string
	}{
		{"customer", "add", "ok"},
		{"customer", "add", "duplicate"},
		{"supplier", "remove", "not_found"},
		{"supplier", "remove", "error"},
	}
	for _, tc := range cases {
		if got := testutil.ToFloat64(m.mutations.WithLabelValues(tc.kind, tc.action, tc.result)); got != 1 {
			t.Fatalf("expected 1 for %v, got %v", tc, got)
		}
	}
}

func TestStoreMetrics_GaugesAndSaves(t *testing.T) {
	m := NewStoreMetrics(prometheus.NewRegistry())

	m.SetEntityCount(domain.KindReservation, 3)
	m.RecordSave(nil)
	m.RecordSave(errors.New("disk full"))
	m.ObserveReset(2 * time.Millisecond)

	if got := testutil.ToFloat64(m.entities.WithLabelValues("reservation")); got != 3 {
		t.Fatalf("expected 3 reservations, got %v", got)
	}
	if got := testutil.ToFloat64(m.saves.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok save, got %v", got)
	}
	if got := testutil.ToFloat64(m.saves.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed save, got %v", got)
	}
	if got := testutil.CollectAndCount(m.resetDuration); got != 1 {
		t.Fatalf("expected reset histogram to be collected, got %d", got)
	}
}

func TestStoreMetrics_NilReceiver(t *testing.T) {
	var m *StoreMetrics

	m.RecordMutation(domain.KindPerson, "add", nil)
	m.SetEntityCount(domain.KindPerson, 1)
	m.ObserveReset(time.Second)
	m.RecordSave(nil)
}

func TestNewStoreMetrics_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewStoreMetrics(registry)
	second := NewStoreMetrics(registry)

	first.RecordSave(nil)
	if got := testutil.ToFloat64(second.saves.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected collectors to be shared, got %v", got)
	}
}

func TestOutboxMetrics_SetBacklog(t *testing.T) {
	m := NewOutboxMetrics(prometheus.NewRegistry())
	now := time.Now()

	m.SetBacklog(domain.OutboxStats{PendingCount: 4, OldestPendingAt: now.Add(-10 * time.Second)}, now)
	if got := testutil.ToFloat64(m.pendingRecords); got != 4 {
		t.Fatalf("expected 4 pending, got %v", got)
	}
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 10 {
		t.Fatalf("expected age 10s, got %v", got)
	}

	m.SetBacklog(domain.OutboxStats{}, now)
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 0 {
		t.Fatalf("expected age reset to 0, got %v", got)
	}

	m.RecordPublish("sent")
	if got := testutil.ToFloat64(m.publishAttempts.WithLabelValues("sent")); got != 1 {
		t.Fatalf("expected 1 sent attempt, got %v", got)
	}
}

func TestStoreMetrics_ResetHistogramSamples(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewStoreMetrics(registry)

	m.ObserveReset(3 * time.Millisecond)
	m.ObserveReset(7 * time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var histogram *dto.Histogram
	for _, family := range families {
		if family.GetName() == "rhrh_store_reset_duration_seconds" {
			histogram = family.GetMetric()[0].GetHistogram()
		}
	}
	if histogram == nil {
		t.Fatal("reset histogram not gathered")
	}
	if histogram.GetSampleCount() != 2 {
		t.Fatalf("expected 2 samples, got %d", histogram.GetSampleCount())
	}
	if sum := histogram.GetSampleSum(); sum < 0.0099 || sum > 0.0101 {
		t.Fatalf("unexpected sample sum %v", sum)
	}
}
