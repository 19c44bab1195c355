package domain

import (
	"context"
	"time"
)

// RhrhStorage сохраняет и загружает снимок агрегата.
type RhrhStorage interface {
	// Load возвращает последний сохранённый снимок или ErrSnapshotNotFound.
	Load(ctx context.Context) (Snapshot, error)
	// Save перезаписывает сохранённый снимок содержимым data.
	Save(ctx context.Context, data ReadOnlyRhrh) error
	// Ping проверяет доступность хранилища (для health checks).
	Ping(ctx context.Context) error
}

// OutboxPublisher публикует события об изменениях наружу.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository копит события до публикации воркером.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// OutboxStats описывает текущее состояние backlog outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
