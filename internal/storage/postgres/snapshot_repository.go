package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/codec"
)

const snapshotMarkerID = 1

type snapshotRepository struct {
	store *Store
}

// NewSnapshotRepository создаёт PostgreSQL-реализацию RhrhStorage.
// Коллекции хранятся построчно в rhrh_entities, порядок задаёт position.
func NewSnapshotRepository(store *Store) *snapshotRepository {
	return &snapshotRepository{store: store}
}

func (r *snapshotRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	db := r.store.DB()

	var savedAt time.Time
	err := db.QueryRowContext(ctx, `SELECT saved_at FROM rhrh_snapshots WHERE id = $1`, snapshotMarkerID).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query snapshot marker: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT kind, entity_key, payload
		FROM rhrh_entities
		ORDER BY kind, position
	`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var dto codec.SnapshotDTO
	for rows.Next() {
		var (
			kind    string
			key     string
			payload []byte
		)
		if err := rows.Scan(&kind, &key, &payload); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan entity: %w", err)
		}
		if err := appendEntity(&dto, domain.Kind(kind), payload); err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode %s %q: %w", kind, key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate entities: %w", err)
	}

	return dto.ToSnapshot()
}

// Save заменяет сохранённый снимок целиком в одной транзакции.
func (r *snapshotRepository) Save(ctx context.Context, data domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(data) {
		return fmt.Errorf("save snapshot: %w", domain.ErrNilArgument)
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rhrh_entities`); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rhrh_entities (kind, position, entity_key, payload)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("prepare entity insert: %w", err)
	}
	defer stmt.Close()

	total := 0
	inserts := []func() (int, error){
		func() (int, error) { return insertAll(ctx, stmt, domain.KindPerson, data.PersonList(), codec.PersonFrom) },
		func() (int, error) { return insertAll(ctx, stmt, domain.KindCustomer, data.CustomerList(), codec.CustomerFrom) },
		func() (int, error) { return insertAll(ctx, stmt, domain.KindEmployee, data.EmployeeList(), codec.EmployeeFrom) },
		func() (int, error) { return insertAll(ctx, stmt, domain.KindSupplier, data.SupplierList(), codec.SupplierFrom) },
		func() (int, error) {
			return insertAll(ctx, stmt, domain.KindReservation, data.ReservationList(), codec.ReservationFrom)
		},
	}
	for _, insert := range inserts {
		n, err := insert()
		if err != nil {
			return err
		}
		total += n
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rhrh_snapshots (id, saved_at, entity_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at, entity_count = EXCLUDED.entity_count
	`, snapshotMarkerID, time.Now().UTC(), total); err != nil {
		return fmt.Errorf("upsert snapshot marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func insertAll[E domain.Entity[E], D any](ctx context.Context, stmt *sql.Stmt, kind domain.Kind, view domain.View[E], toDTO func(E) D) (int, error) {
	for i, e := range view.All() {
		payload, err := json.Marshal(toDTO(e))
		if err != nil {
			return 0, fmt.Errorf("encode %s %q: %w", kind, e.Key(), err)
		}
		if _, err := stmt.ExecContext(ctx, string(kind), i, e.Key(), payload); err != nil {
			return 0, fmt.Errorf("insert %s %q: %w", kind, e.Key(), err)
		}
	}
	return view.Len(), nil
}

func appendEntity(dto *codec.SnapshotDTO, kind domain.Kind, payload []byte) error {
	switch kind {
	case domain.KindPerson:
		return decodeInto(payload, &dto.Persons)
	case domain.KindCustomer:
		return decodeInto(payload, &dto.Customers)
	case domain.KindEmployee:
		return decodeInto(payload, &dto.Employees)
	case domain.KindSupplier:
		return decodeInto(payload, &dto.Suppliers)
	case domain.KindReservation:
		return decodeInto(payload, &dto.Reservations)
	default:
		return fmt.Errorf("unknown entity kind %q", kind)
	}
}

func decodeInto[D any](payload []byte, target *[]D) error {
	var item D
	if err := json.Unmarshal(payload, &item); err != nil {
		return err
	}
	*target = append(*target, item)
	return nil
}

var _ domain.RhrhStorage = (*snapshotRepository)(nil)
