package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/model"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/memory"
)

func TestSnapshotStorage_LoadBeforeSave(t *testing.T) {
	s := memory.NewSnapshotStorage()

	if _, err := s.Load(context.Background()); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSnapshotStorage_SaveCopiesData(t *testing.T) {
	s := memory.NewSnapshotStorage()
	ctx := context.Background()

	store := model.NewRhrh()
	if err := store.AddPerson(domain.Person{Name: "Alice", Phone: "123"}); err != nil {
		t.Fatalf("add person: %v", err)
	}
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.AddPerson(domain.Person{Name: "Bob", Phone: "456"}); err != nil {
		t.Fatalf("add person: %v", err)
	}

	snap, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Persons) != 1 || snap.Persons[0].Name != "Alice" {
		t.Fatalf("expected snapshot taken at save time, got %+v", snap.Persons)
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}
}

func TestSnapshotStorage_SaveNil(t *testing.T) {
	s := memory.NewSnapshotStorage()

	if err := s.Save(context.Background(), nil); !errors.Is(err, domain.ErrNilArgument) {
		t.Fatalf("expected ErrNilArgument, got %v", err)
	}
}

func TestSnapshotStorage_CanceledContext(t *testing.T) {
	s := memory.NewSnapshotStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
