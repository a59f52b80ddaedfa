package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/timewise-app/timewise/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is a SQLite-backed implementation of storage.Store. The snapshot
// lives in a single-row slot table; the schema is managed by embedded
// goose migrations.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path and runs
// migrations.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The store is single-writer; one connection avoids SQLITE_BUSY on
	// concurrent save and ticker reads.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// runMigrations applies embedded goose migrations.
func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Load reads the slot row. An empty table yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	var (
		state   []byte
		version int
	)

	row := s.db.QueryRowContext(ctx, `SELECT state, version FROM store_snapshot WHERE id = 1`)
	if err := row.Scan(&state, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to read snapshot row: %w", err)
	}

	snapshot := storage.NewSnapshot()
	snapshot.State = storage.DecodeState(json.RawMessage(state), version)
	return snapshot, nil
}

// Save upserts the slot row with the serialized state.
func (s *Store) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	state, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	const stmt = `
INSERT INTO store_snapshot (id, version, state, updated_at)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  version = excluded.version,
  state = excluded.state,
  updated_at = excluded.updated_at
`
	if _, err := s.db.ExecContext(ctx, stmt, snapshot.Version, state, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
