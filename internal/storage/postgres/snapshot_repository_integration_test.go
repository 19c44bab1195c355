package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/model"
)

func integrationFixture(t *testing.T) *model.Rhrh {
	t.Helper()

	base := domain.Person{Name: "Alex Yeoh", Phone: "87438807", Email: "alex@example.com", Tags: []domain.Tag{"friends"}}
	store := model.NewRhrh()
	require.NoError(t, store.AddPerson(base))
	require.NoError(t, store.AddCustomer(domain.Customer{Person: base, RewardPoints: 12, Allergies: []domain.Allergy{"shellfish"}}))
	require.NoError(t, store.AddCustomer(domain.Customer{Person: domain.Person{Name: "Bernice Yu", Phone: "99272758"}}))
	require.NoError(t, store.AddEmployee(domain.Employee{
		Person:      domain.Person{Name: "Charlotte Oliveiro", Phone: "93210283"},
		JobTitle:    "Sous Chef",
		SalaryMinor: 380000,
		Leaves:      7,
		Shifts:      []domain.Shift{{Day: time.Saturday, Slot: domain.ShiftEvening}},
	}))
	require.NoError(t, store.AddSupplier(domain.Supplier{Person: domain.Person{Name: "David Li", Phone: "91031282"}, SupplyType: "Meat"}))
	for _, hour := range []int{18, 19, 20} {
		require.NoError(t, store.AddReservation(domain.Reservation{
			Phone:          "98765432",
			NumberOfPeople: 2,
			DateTime:       time.Date(2026, time.April, 2, hour, 0, 0, 0, time.UTC),
		}))
	}
	return store
}

func TestSnapshotRepository_PostgresLoadBeforeSave(t *testing.T) {
	store := freshStore(t)
	repo := NewSnapshotRepository(store)

	_, err := repo.Load(context.Background())
	require.True(t, errors.Is(err, domain.ErrSnapshotNotFound), "expected ErrSnapshotNotFound, got %v", err)
}

func TestSnapshotRepository_PostgresRoundTrip(t *testing.T) {
	store := freshStore(t)
	repo := NewSnapshotRepository(store)
	ctx := context.Background()

	original := integrationFixture(t)
	require.NoError(t, repo.Save(ctx, original))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)

	loaded, err := model.NewRhrhFrom(snap)
	require.NoError(t, err)
	require.True(t, loaded.Equal(original), "loaded store differs:\n%s", loaded)
	require.Equal(t, original.Hash(), loaded.Hash())
}

func TestSnapshotRepository_PostgresSaveReplacesPrevious(t *testing.T) {
	store := freshStore(t)
	repo := NewSnapshotRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, integrationFixture(t)))
	require.NoError(t, repo.Save(ctx, domain.Snapshot{}))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Persons)
	require.Empty(t, snap.Reservations)
}

func TestSnapshotRepository_SaveNil(t *testing.T) {
	repo := NewSnapshotRepository(nil)

	err := repo.Save(context.Background(), nil)
	require.True(t, errors.Is(err, domain.ErrNilArgument))
}
