package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/timewise-app/timewise/internal/domain"
)

// SchemaVersion is the current version of the persisted snapshot schema.
// Bump it and extend DecodeState when the shape changes incompatibly.
const SchemaVersion = 1

// State is the complete in-memory state of the application: the four
// entity collections plus the currently active time entry, if any.
type State struct {
	Tasks           []domain.Task      `json:"tasks"`
	Projects        []domain.Project   `json:"projects"`
	TimeBlocks      []domain.TimeBlock `json:"timeBlocks"`
	TimeEntries     []domain.TimeEntry `json:"timeEntries"`
	ActiveTimeEntry *domain.TimeEntry  `json:"activeTimeEntry,omitempty"`
}

// Snapshot is the versioned persistence envelope wrapping a State.
type Snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// NewSnapshot returns an empty snapshot at the current schema version.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		State: State{
			Tasks:       []domain.Task{},
			Projects:    []domain.Project{},
			TimeBlocks:  []domain.TimeBlock{},
			TimeEntries: []domain.TimeEntry{},
		},
		Version: SchemaVersion,
	}
}

// EncodeSnapshot serializes a snapshot for storage.
func EncodeSnapshot(snapshot *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a stored snapshot envelope.
//
// Corruption never fails the load: an unreadable envelope yields an empty
// snapshot, and a readable envelope with malformed collections resets only
// the malformed ones. Startup must survive partial corruption.
func DecodeSnapshot(data []byte) *Snapshot {
	var envelope struct {
		State   json.RawMessage `json:"state"`
		Version int             `json:"version"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		slog.Warn("discarding unreadable snapshot envelope", "error", err)
		return NewSnapshot()
	}

	snapshot := NewSnapshot()
	snapshot.State = DecodeState(envelope.State, envelope.Version)
	return snapshot
}

// DecodeState deserializes a state payload stored at the given schema
// version into the current State shape.
//
// Every version so far shares the same shape, so migration is the
// field-by-field tolerant decode below: unknown fields are dropped and
// each malformed collection is reset to empty on its own. Add a version
// case here when a future schema bump changes the shape.
func DecodeState(data json.RawMessage, version int) State {
	if version != SchemaVersion {
		slog.Info("migrating persisted state", "from", version, "to", SchemaVersion)
	}

	switch version {
	default:
		return decodeStateV1(data)
	}
}

func decodeStateV1(data json.RawMessage) State {
	var raw struct {
		Tasks           json.RawMessage `json:"tasks"`
		Projects        json.RawMessage `json:"projects"`
		TimeBlocks      json.RawMessage `json:"timeBlocks"`
		TimeEntries     json.RawMessage `json:"timeEntries"`
		ActiveTimeEntry json.RawMessage `json:"activeTimeEntry"`
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			slog.Warn("discarding unreadable state payload", "error", err)
		}
	}

	state := State{
		Tasks:       decodeCollection[domain.Task](raw.Tasks, "tasks"),
		Projects:    decodeCollection[domain.Project](raw.Projects, "projects"),
		TimeBlocks:  decodeCollection[domain.TimeBlock](raw.TimeBlocks, "timeBlocks"),
		TimeEntries: decodeCollection[domain.TimeEntry](raw.TimeEntries, "timeEntries"),
	}

	if isPresent(raw.ActiveTimeEntry) {
		var active domain.TimeEntry
		if err := json.Unmarshal(raw.ActiveTimeEntry, &active); err != nil {
			slog.Warn("resetting malformed active entry", "error", err)
		} else {
			state.ActiveTimeEntry = &active
		}
	}

	return state
}

// decodeCollection unmarshals one entity collection, resetting it to empty
// when the stored value is missing, null or not an array of the expected
// shape. One bad collection must not poison the others.
func decodeCollection[T any](data json.RawMessage, name string) []T {
	if !isPresent(data) {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("resetting malformed collection", "collection", name, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}

	return items
}

func isPresent(data json.RawMessage) bool {
	return len(data) > 0 && string(data) != "null"
}
