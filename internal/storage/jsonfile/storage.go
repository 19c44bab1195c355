// Package jsonfile хранит снимок rhrh в одном JSON-файле.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/codec"
)

// Storage читает и пишет снимок в файл path.
type Storage struct {
	path string
}

// New создаёт файловое хранилище. Сам файл может ещё не существовать.
func New(path string) (*Storage, error) {
	if path == "" {
		return nil, errors.New("json storage path is required")
	}
	return &Storage{path: path}, nil
}

// Path возвращает путь к файлу снимка.
func (s *Storage) Path() string {
	return s.path
}

// Load читает снимок; если файла нет, возвращает domain.ErrSnapshotNotFound.
func (s *Storage) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	snap, err := codec.Unmarshal(data)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	return snap, nil
}

// Save пишет снимок во временный файл рядом с целевым и атомарно переименовывает его.
func (s *Storage) Save(ctx context.Context, data domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(data) {
		return fmt.Errorf("save snapshot: %w", domain.ErrNilArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := codec.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}

// Ping проверяет, что каталог файла доступен.
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

var _ domain.RhrhStorage = (*Storage)(nil)
