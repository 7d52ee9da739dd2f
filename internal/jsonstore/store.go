package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
)

// Storage is a load-all/replace-all collection of records.
// Update runs fn as one read-modify-write step; when fn returns an error
// nothing is written and the error is returned unchanged.
type Storage[T any] interface {
	GetAll() ([]T, error)
	Update(fn func(records []T) ([]T, error)) error
}

// File keeps the whole collection as an indented JSON array in one file.
// Writers hold an exclusive lock on a sibling ".lock" file, so separate
// processes sharing the same data file do not lose each other's updates.
type File[T any] struct {
	path string
	mu   sync.RWMutex
	lock *flock.Flock
}

// NewFile returns a File backed by path. The file does not need to exist yet.
func NewFile[T any](path string) (*File[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File[T]{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file path.
func (f *File[T]) Path() string {
	return f.path
}

// GetAll reads every record. A missing file is an empty collection.
func (f *File[T]) GetAll() ([]T, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	defer f.lock.Unlock()

	return f.read()
}

// Update reads the collection, applies fn and atomically replaces the file
// with the result.
func (f *File[T]) Update(fn func(records []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	defer f.lock.Unlock()

	records, err := f.read()
	if err != nil {
		return err
	}

	updated, err := fn(records)
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []T{}
	}

	data, err := json.MarshalIndent(updated, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}
	if err := renameio.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

func (f *File[T]) read() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	records := []T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return records, nil
}

// Memory is an in-memory Storage, used in tests and as a scratch backend.
type Memory[T any] struct {
	mu      sync.RWMutex
	records []T
}

// NewMemory instantiates a Memory store holding a copy of records.
func NewMemory[T any](records ...T) *Memory[T] {
	return &Memory[T]{records: append([]T{}, records...)}
}

func (m *Memory[T]) GetAll() ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T{}, m.records...), nil
}

func (m *Memory[T]) Update(fn func(records []T) ([]T, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated, err := fn(append([]T{}, m.records...))
	if err != nil {
		return err
	}
	m.records = append([]T{}, updated...)
	return nil
}
