package memory

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

func TestOutboxRepository_EnqueueAndPull(t *testing.T) {
	repo := NewOutboxRepository()

	msg := domain.OutboxMessage{
		AggregateType: "customer",
		AggregateID:   "Alice",
		EventType:     "rhrh.customer.added",
		Payload:       []byte(`{"count":1}`),
	}

	saved, err := repo.Enqueue(msg)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
	if pending[0].ID != saved.ID {
		t.Fatalf("expected same message id, got %s", pending[0].ID)
	}
}

func TestOutboxRepository_PullKeepsEnqueueOrder(t *testing.T) {
	repo := NewOutboxRepository()
	var ids []string
	for _, key := range []string{"a", "b", "c", "d"} {
		saved, err := repo.Enqueue(domain.OutboxMessage{AggregateType: "person", AggregateID: key})
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		ids = append(ids, saved.ID)
	}
	if err := repo.MarkSent(ids[0]); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, err := repo.PullPending(2)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[1] || pending[1].ID != ids[2] {
		t.Fatalf("unexpected pending order: %+v", pending)
	}
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	repo := NewOutboxRepository()

	saved, err := repo.Enqueue(domain.OutboxMessage{AggregateType: "supplier"})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.MarkSent(saved.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	if err := repo.MarkFailed(saved.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := repo.MarkFailed("missing"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound for missing record, got %v", err)
	}
	if len(repo.AllPending()) != 0 {
		t.Fatal("expected no pending messages")
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := NewOutboxRepository()

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 0 || !stats.OldestPendingAt.IsZero() {
		t.Fatalf("expected empty stats, got %+v", stats)
	}

	first, _ := repo.Enqueue(domain.OutboxMessage{AggregateType: "reservation"})
	_, _ = repo.Enqueue(domain.OutboxMessage{AggregateType: "reservation"})

	stats, err = repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.PendingCount)
	}
	if !stats.OldestPendingAt.Equal(first.CreatedAt) {
		t.Fatalf("expected oldest %v, got %v", first.CreatedAt, stats.OldestPendingAt)
	}
}

func TestOutboxRepository_DuplicateID(t *testing.T) {
	repo := NewOutboxRepository()

	if _, err := repo.Enqueue(domain.OutboxMessage{ID: "fixed"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := repo.Enqueue(domain.OutboxMessage{ID: "fixed"}); !errors.Is(err, domain.ErrDuplicateEntity) {
		t.Fatalf("expected ErrDuplicateEntity, got %v", err)
	}
}
