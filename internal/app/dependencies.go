package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/jsonfile"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/memory"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/postgres"
)

// runtimeDependencies — хранилище снимков и outbox для выбранного драйвера.
type runtimeDependencies struct {
	storage    domain.RhrhStorage
	outboxRepo domain.OutboxRepository
	close      func() error
}

func (d runtimeDependencies) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// initRuntimeDependencies создаёт хранилище по cfg.StorageDriver.
// Для postgres outbox живёт в той же базе, для остальных драйверов в памяти.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		logger.Info("using in-memory snapshot storage")
		return runtimeDependencies{
			storage:    memory.NewSnapshotStorage(),
			outboxRepo: memory.NewOutboxRepository(),
		}, nil

	case StorageDriverJSON:
		storage, err := jsonfile.New(cfg.JSONPath)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("init json storage: %w", err)
		}
		logger.WithField("path", storage.Path()).Info("using json file snapshot storage")
		return runtimeDependencies{
			storage:    storage,
			outboxRepo: memory.NewOutboxRepository(),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return runtimeDependencies{}, fmt.Errorf("postgres storage requires dsn")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, err
		}
		if cfg.PostgresEnsureSchema {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return runtimeDependencies{}, err
			}
		}
		logger.Info("using postgres snapshot storage")
		return runtimeDependencies{
			storage:    postgres.NewSnapshotRepository(store),
			outboxRepo: postgres.NewOutboxRepository(store),
			close:      store.Close,
		}, nil

	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
