package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

const (
	outboxStateSent   = "sent"
	outboxStateFailed = "failed"

	outboxDefaultPull = 100
)

const (
	insertOutboxSQL = `
		INSERT INTO rhrh_outbox (id, entity_kind, entity_key, event_type, payload, enqueued_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	selectPendingOutboxSQL = `
		SELECT id, entity_kind, entity_key, event_type, payload, enqueued_at
		FROM rhrh_outbox
		WHERE state = 'pending'
		ORDER BY enqueued_at, id
		LIMIT $1`

	pendingOutboxStatsSQL = `
		SELECT COUNT(*), MIN(enqueued_at)
		FROM rhrh_outbox
		WHERE state = 'pending'`

	settleOutboxSQL = `
		UPDATE rhrh_outbox
		SET state = $2, attempts = attempts + 1, processed_at = $3
		WHERE id = $1`
)

// entityOutbox хранит события изменений коллекций в rhrh_outbox.
// entity_kind и entity_key соответствуют AggregateType и AggregateID сообщения.
type entityOutbox struct {
	db *sql.DB
}

// NewOutboxRepository создаёт PostgreSQL-реализацию OutboxRepository.
// Таблица rhrh_outbox создаётся в EnsureSchema.
func NewOutboxRepository(store *Store) domain.OutboxRepository {
	return &entityOutbox{db: store.DB()}
}

func (o *entityOutbox) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	// TIMESTAMPTZ хранит микросекунды; возвращаем ровно то, что будет прочитано.
	msg.CreatedAt = msg.CreatedAt.UTC().Truncate(time.Microsecond)

	_, err := o.db.ExecContext(ctx, insertOutboxSQL,
		msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, msg.CreatedAt)
	if isUniqueViolation(err) {
		return domain.OutboxMessage{}, fmt.Errorf("outbox message %q: %w", msg.ID, domain.ErrDuplicateEntity)
	}
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("insert %s event for %q: %w", msg.AggregateType, msg.AggregateID, err)
	}
	return msg, nil
}

// PullPending отдаёт до limit ожидающих событий в порядке постановки.
func (o *entityOutbox) PullPending(limit int) ([]domain.OutboxMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = outboxDefaultPull
	}

	rows, err := o.db.QueryContext(ctx, selectPendingOutboxSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending events: %w", err)
	}
	defer rows.Close()

	var pending []domain.OutboxMessage
	for rows.Next() {
		msg, err := scanOutboxMessage(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending events: %w", err)
	}
	return pending, nil
}

func (o *entityOutbox) Stats() (domain.OutboxStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		stats  domain.OutboxStats
		oldest sql.NullTime
	)
	if err := o.db.QueryRowContext(ctx, pendingOutboxStatsSQL).Scan(&stats.PendingCount, &oldest); err != nil {
		return domain.OutboxStats{}, fmt.Errorf("query outbox backlog: %w", err)
	}
	if oldest.Valid {
		stats.OldestPendingAt = oldest.Time.UTC()
	}
	return stats, nil
}

func (o *entityOutbox) MarkSent(id string) error {
	return o.settle(id, outboxStateSent)
}

func (o *entityOutbox) MarkFailed(id string) error {
	return o.settle(id, outboxStateFailed)
}

// settle переводит событие в конечное состояние; повторная отметка перезаписывает его.
func (o *entityOutbox) settle(id, state string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := o.db.ExecContext(ctx, settleOutboxSQL, id, state, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("settle outbox message %q as %s: %w", id, state, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("settle outbox message %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("outbox message %q: %w", id, domain.ErrEntityNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutboxMessage(row rowScanner) (domain.OutboxMessage, error) {
	var msg domain.OutboxMessage
	if err := row.Scan(&msg.ID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.Payload, &msg.CreatedAt); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("scan outbox message: %w", err)
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.OutboxRepository = (*entityOutbox)(nil)
