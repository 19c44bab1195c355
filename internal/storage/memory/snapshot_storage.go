package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// snapshotStorageInMemory держит последний сохранённый снимок в памяти процесса.
type snapshotStorageInMemory struct {
	mu    sync.RWMutex
	snap  domain.Snapshot
	saved bool
	saves int
}

// NewSnapshotStorage возвращает in-memory хранилище для локальной разработки и тестов.
func NewSnapshotStorage() *snapshotStorageInMemory {
	return &snapshotStorageInMemory{}
}

// Load возвращает копию сохранённого снимка или ErrSnapshotNotFound.
func (s *snapshotStorageInMemory) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return domain.SnapshotOf(s.snap), nil
}

// Save сохраняет копию data; последующие изменения источника на неё не влияют.
func (s *snapshotStorageInMemory) Save(ctx context.Context, data domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(data) {
		return fmt.Errorf("save snapshot: %w", domain.ErrNilArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := domain.SnapshotOf(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.saved = true
	s.saves++
	return nil
}

func (s *snapshotStorageInMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Saves возвращает количество успешных Save (используется в тестах).
func (s *snapshotStorageInMemory) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ domain.RhrhStorage = (*snapshotStorageInMemory)(nil)
