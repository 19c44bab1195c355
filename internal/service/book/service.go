// Package book — командный слой над агрегатом rhrh: синхронизация, валидация полей,
// метрики, публикация событий об изменениях и автосохранение снимка.
package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/rhrh/internal/metrics"
	"github.com/vladislavdragonenkov/rhrh/internal/model"
)

const defaultSaveTimeout = 5 * time.Second

// Options задаёт зависимости сервиса.
type Options struct {
	Logger      *log.Entry
	Storage     domain.RhrhStorage
	Outbox      domain.OutboxRepository
	Metrics     *metrics.StoreMetrics
	Autosave    bool
	SaveTimeout time.Duration
}

// Option настраивает Service.
type Option func(*Options)

func WithLogger(logger *log.Entry) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithStorage задаёт хранилище снимков для Load/Save и автосохранения.
func WithStorage(storage domain.RhrhStorage) Option {
	return func(o *Options) { o.Storage = storage }
}

// WithOutbox включает запись событий об изменениях в outbox.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(o *Options) { o.Outbox = repo }
}

func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithAutosave включает сохранение снимка после каждого успешного изменения.
func WithAutosave(enabled bool) Option {
	return func(o *Options) { o.Autosave = enabled }
}

func WithSaveTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.SaveTimeout = timeout }
}

// Service владеет агрегатом и сериализует доступ к нему через RWMutex.
// Чтения берут RLock, любые изменения и автосохранение выполняются под Lock,
// поэтому сохранённые снимки идут в том же порядке, что и изменения.
type Service struct {
	mu    sync.RWMutex
	store *model.Rhrh
	// pending копит события текущей мутации; доступ только под mu.
	pending []model.ChangeEvent

	storage     domain.RhrhStorage
	outbox      domain.OutboxRepository
	metrics     *metrics.StoreMetrics
	logger      *log.Entry
	autosave    bool
	saveTimeout time.Duration
}

// NewService создаёт сервис с пустым агрегатом.
func NewService(options ...Option) *Service {
	opts := Options{SaveTimeout: defaultSaveTimeout}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "book-service")
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}

	s := &Service{
		store:       model.NewRhrh(),
		storage:     opts.Storage,
		outbox:      opts.Outbox,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		autosave:    opts.Autosave && opts.Storage != nil,
		saveTimeout: opts.SaveTimeout,
	}
	// Subscribe с не-nil слушателем не возвращает ошибку.
	_, _ = s.store.Subscribe(func(e model.ChangeEvent) {
		s.pending = append(s.pending, e)
	})
	return s
}

// Snapshot возвращает копию текущего содержимого.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SnapshotOf(s.store)
}

// Describe возвращает сводку вида "N persons\n...".
func (s *Service) Describe() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.String()
}

func (s *Service) Counts() model.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Counts()
}

// Hash возвращает хеш текущего содержимого; совпадает у равных агрегатов.
func (s *Service) Hash() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Hash()
}

// Reset заменяет всё содержимое по принципу "всё или ничего": сначала проверяются
// поля всех записей и уникальность внутри каждого списка, затем выполняется ResetData.
func (s *Service) Reset(ctx context.Context, data domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(data) {
		return fmt.Errorf("reset: %w", domain.ErrNilArgument)
	}
	snap := domain.SnapshotOf(data)
	if err := validateSnapshotFields(snap); err != nil {
		s.metrics.RecordMutation("all", "reset", err)
		return err
	}
	if err := model.ValidateSnapshot(snap); err != nil {
		s.metrics.RecordMutation("all", "reset", err)
		return err
	}

	start := time.Now()
	err := s.mutate(ctx, "all", "reset", func(r *model.Rhrh) error {
		return r.ResetData(snap)
	})
	s.metrics.ObserveReset(time.Since(start))
	return err
}

// Load заменяет содержимое снимком из хранилища. Отсутствие снимка не ошибка:
// агрегат остаётся пустым. События об изменениях при загрузке не публикуются.
func (s *Service) Load(ctx context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("load: storage: %w", domain.ErrNilArgument)
	}

	snap, err := s.storage.Load(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		s.logger.Info("no stored snapshot, starting with empty store")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := model.ValidateSnapshot(snap); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ResetData(snap); err != nil {
		s.pending = nil
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.pending = nil
	s.refreshGaugesLocked()

	s.logger.WithFields(log.Fields{
		"persons":      s.store.PersonList().Len(),
		"customers":    s.store.CustomerList().Len(),
		"employees":    s.store.EmployeeList().Len(),
		"suppliers":    s.store.SupplierList().Len(),
		"reservations": s.store.ReservationList().Len(),
	}).Info("snapshot loaded")
	return nil
}

// Save сохраняет текущее содержимое в хранилище.
func (s *Service) Save(ctx context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("save: storage: %w", domain.ErrNilArgument)
	}
	s.mu.RLock()
	snap := domain.SnapshotOf(s.store)
	s.mu.RUnlock()

	err := s.storage.Save(ctx, snap)
	s.metrics.RecordSave(err)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// mutate выполняет fn под эксклюзивной блокировкой, затем публикует накопленные
// события и, если включено, сохраняет снимок.
func (s *Service) mutate(ctx context.Context, kind domain.Kind, action string, fn func(r *model.Rhrh) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.store)
	s.metrics.RecordMutation(kind, action, err)

	events := s.pending
	s.pending = nil

	// ResetData может частично примениться до ошибки: события отражают уже сделанные изменения.
	s.dispatchLocked(events)
	if len(events) > 0 {
		s.autosaveLocked(ctx)
	}

	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"kind":   kind,
			"action": action,
		}).Debug("mutation rejected")
		return err
	}
	return nil
}

func (s *Service) dispatchLocked(events []model.ChangeEvent) {
	for _, e := range events {
		s.metrics.SetEntityCount(e.Kind, e.Count)

		s.logger.WithFields(log.Fields{
			"kind":   e.Kind,
			"action": e.Action,
			"key":    e.Key,
			"count":  e.Count,
		}).Info("store changed")

		if s.outbox == nil {
			continue
		}
		msg, err := outboxMessageFor(e)
		if err != nil {
			s.logger.WithError(err).Warn("failed to encode change event")
			continue
		}
		if _, err := s.outbox.Enqueue(msg); err != nil {
			s.logger.WithError(err).WithField("event_type", msg.EventType).Warn("failed to enqueue change event")
		}
	}
}

func (s *Service) autosaveLocked(ctx context.Context) {
	if !s.autosave {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	err := s.storage.Save(saveCtx, domain.SnapshotOf(s.store))
	s.metrics.RecordSave(err)
	if err != nil {
		s.logger.WithError(err).Error("autosave failed")
	}
}

func (s *Service) refreshGaugesLocked() {
	c := s.store.Counts()
	s.metrics.SetEntityCount(domain.KindPerson, c.Persons)
	s.metrics.SetEntityCount(domain.KindCustomer, c.Customers)
	s.metrics.SetEntityCount(domain.KindEmployee, c.Employees)
	s.metrics.SetEntityCount(domain.KindSupplier, c.Suppliers)
	s.metrics.SetEntityCount(domain.KindReservation, c.Reservations)
}

func outboxMessageFor(e model.ChangeEvent) (domain.OutboxMessage, error) {
	event := kafka.NewEntityEvent(string(e.Kind), string(e.Action), e.Key, e.PreviousKey, e.Count)
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.OutboxMessage{}, err
	}
	return domain.OutboxMessage{
		AggregateType: string(e.Kind),
		AggregateID:   e.Key,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     event.Timestamp,
	}, nil
}

func validateSnapshotFields(snap domain.Snapshot) error {
	if err := validateAll(domain.KindPerson, snap.Persons); err != nil {
		return err
	}
	if err := validateAll(domain.KindCustomer, snap.Customers); err != nil {
		return err
	}
	if err := validateAll(domain.KindEmployee, snap.Employees); err != nil {
		return err
	}
	if err := validateAll(domain.KindSupplier, snap.Suppliers); err != nil {
		return err
	}
	return validateAll(domain.KindReservation, snap.Reservations)
}
