package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/timewise-app/timewise/internal/storage"
)

// Store is a filesystem-based implementation of storage.Store. The whole
// snapshot lives in a single JSON file, replaced atomically on every save.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a new filesystem store persisting to the given file.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads the snapshot file. A missing file yields an empty snapshot;
// a corrupt one degrades per collection via the envelope decoder.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	return storage.DecodeSnapshot(data), nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the slot, so a crash mid-write never leaves a torn file.
func (s *Store) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

// Close implements storage.Store. The filesystem store holds no resources.
func (s *Store) Close() error {
	return nil
}
