package storage

import "context"

// Store persists the entire application state under a single named slot.
// Implementations can be file-based, database-based, etc.
//
// The engine writes through on every mutation, so Save is called often and
// always with the complete state. Load is called once at startup.
type Store interface {
	// Load reads the persisted snapshot. A missing slot is not an error:
	// implementations return an empty snapshot at the current schema
	// version. Corrupt payloads degrade per collection rather than fail.
	Load(ctx context.Context) (*Snapshot, error)

	// Save durably records the snapshot, replacing any previous one.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
