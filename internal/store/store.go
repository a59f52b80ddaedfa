// Package store holds the process-wide application state: the four entity
// collections and the active time entry, together with the time-tracking
// state machine built on top of them.
//
// The store is a deliberately dumb CRUD surface: it enforces id uniqueness
// and the at-most-one-active-entry invariant, and nothing else. Field
// validation belongs to the boundary (see internal/service). Every
// successful mutation writes the whole state through to the configured
// persistence store; a failed write is logged and recorded but never
// fails the mutation, so the in-memory state stays usable when the disk
// does not cooperate.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/timewise-app/timewise/internal/domain"
	"github.com/timewise-app/timewise/internal/storage"
)

// Store is the single mutable state holder for a running application.
// A UI collaborator holds one Store instance and calls its operations;
// reads return copies, never aliases of internal state.
type Store struct {
	mu sync.RWMutex

	tasks       []domain.Task
	projects    []domain.Project
	timeBlocks  []domain.TimeBlock
	timeEntries []domain.TimeEntry
	active      *domain.TimeEntry

	persist     storage.Store
	now         func() time.Time
	log         *slog.Logger
	lastSaveErr error
}

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithPersistence sets the write-through persistence target. Without it
// the store is memory-only.
func WithPersistence(persist storage.Store) Option {
	return func(s *Store) {
		s.persist = persist
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:       []domain.Task{},
		projects:    []domain.Project{},
		timeBlocks:  []domain.TimeBlock{},
		timeEntries: []domain.TimeEntry{},
		now:         time.Now,
		log:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open creates a Store backed by the given persistence store, restoring
// the previously saved state. A failed load degrades to an empty state
// with a logged warning: startup must never be blocked by a bad snapshot.
func Open(ctx context.Context, persist storage.Store, opts ...Option) *Store {
	s := New(append(opts, WithPersistence(persist))...)

	snapshot, err := persist.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "failed to load persisted state, starting empty", "error", err)
		return s
	}

	s.tasks = snapshot.State.Tasks
	s.projects = snapshot.State.Projects
	s.timeBlocks = snapshot.State.TimeBlocks
	s.timeEntries = snapshot.State.TimeEntries
	s.active = snapshot.State.ActiveTimeEntry
	return s
}

// Tasks

// AddTask appends a task. The caller supplies the id; a colliding id is
// rejected with domain.ErrDuplicateID.
func (s *Store) AddTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.tasks, byTaskID(task.ID)) >= 0 {
		return fmt.Errorf("task %q: %w", task.ID, domain.ErrDuplicateID)
	}

	s.tasks = append(s.tasks, task)
	s.saveLocked(ctx)
	return nil
}

// UpdateTask replaces the task with a matching id wholesale.
func (s *Store) UpdateTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, byTaskID(task.ID))
	if i < 0 {
		return fmt.Errorf("task %q: %w", task.ID, domain.ErrNotFound)
	}

	s.tasks[i] = task
	s.saveLocked(ctx)
	return nil
}

// DeleteTask removes the task with the given id. No cascade: time entries
// and project references pointing at it are left in place.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, byTaskID(id))
	if i < 0 {
		return fmt.Errorf("task %q: %w", id, domain.ErrNotFound)
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.saveLocked(ctx)
	return nil
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.tasks, byTaskID(id)); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

// Tasks returns a snapshot of the task collection in insertion order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Projects

// AddProject appends a project, rejecting a colliding id.
func (s *Store) AddProject(ctx context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.projects, byProjectID(project.ID)) >= 0 {
		return fmt.Errorf("project %q: %w", project.ID, domain.ErrDuplicateID)
	}

	s.projects = append(s.projects, project)
	s.saveLocked(ctx)
	return nil
}

// UpdateProject replaces the project with a matching id wholesale.
func (s *Store) UpdateProject(ctx context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.projects, byProjectID(project.ID))
	if i < 0 {
		return fmt.Errorf("project %q: %w", project.ID, domain.ErrNotFound)
	}

	s.projects[i] = project
	s.saveLocked(ctx)
	return nil
}

// DeleteProject removes the project with the given id. Tasks keep their
// projectId; readers resolve the dangling reference as "unassigned".
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.projects, byProjectID(id))
	if i < 0 {
		return fmt.Errorf("project %q: %w", id, domain.ErrNotFound)
	}

	s.projects = slices.Delete(s.projects, i, i+1)
	s.saveLocked(ctx)
	return nil
}

// Project returns the project with the given id.
func (s *Store) Project(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.projects, byProjectID(id)); i >= 0 {
		return s.projects[i], true
	}
	return domain.Project{}, false
}

// Projects returns a snapshot of the project collection.
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// Time blocks

// AddTimeBlock appends a time block, rejecting a colliding id.
func (s *Store) AddTimeBlock(ctx context.Context, block domain.TimeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.timeBlocks, byBlockID(block.ID)) >= 0 {
		return fmt.Errorf("time block %q: %w", block.ID, domain.ErrDuplicateID)
	}

	s.timeBlocks = append(s.timeBlocks, block)
	s.saveLocked(ctx)
	return nil
}

// UpdateTimeBlock replaces the time block with a matching id wholesale.
func (s *Store) UpdateTimeBlock(ctx context.Context, block domain.TimeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.timeBlocks, byBlockID(block.ID))
	if i < 0 {
		return fmt.Errorf("time block %q: %w", block.ID, domain.ErrNotFound)
	}

	s.timeBlocks[i] = block
	s.saveLocked(ctx)
	return nil
}

// DeleteTimeBlock removes the time block with the given id.
func (s *Store) DeleteTimeBlock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.timeBlocks, byBlockID(id))
	if i < 0 {
		return fmt.Errorf("time block %q: %w", id, domain.ErrNotFound)
	}

	s.timeBlocks = slices.Delete(s.timeBlocks, i, i+1)
	s.saveLocked(ctx)
	return nil
}

// TimeBlocks returns a snapshot of the time block collection.
func (s *Store) TimeBlocks() []domain.TimeBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.timeBlocks)
}

// Time entries

// AddTimeEntry appends a manually recorded entry. The entry must be
// finalized: open entries are created only by StartTracking, which owns
// the at-most-one-active invariant.
func (s *Store) AddTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Active() {
		return fmt.Errorf("time entry %q: %w", entry.ID, domain.ErrEntryOpen)
	}
	if indexOf(s.timeEntries, byEntryID(entry.ID)) >= 0 {
		return fmt.Errorf("time entry %q: %w", entry.ID, domain.ErrDuplicateID)
	}

	s.timeEntries = append(s.timeEntries, entry)
	s.saveLocked(ctx)
	return nil
}

// UpdateTimeEntry replaces the entry with a matching id wholesale. The
// replacement must be finalized; updating the open entry is the tracking
// engine's job.
func (s *Store) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Active() {
		return fmt.Errorf("time entry %q: %w", entry.ID, domain.ErrEntryOpen)
	}

	i := indexOf(s.timeEntries, byEntryID(entry.ID))
	if i < 0 {
		return fmt.Errorf("time entry %q: %w", entry.ID, domain.ErrNotFound)
	}

	s.timeEntries[i] = entry
	if s.active != nil && s.active.ID == entry.ID {
		// The open entry was finalized out from under the engine.
		s.active = nil
	}
	s.saveLocked(ctx)
	return nil
}

// DeleteTimeEntry removes the entry with the given id, clearing the
// active reference if it pointed at it.
func (s *Store) DeleteTimeEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.timeEntries, byEntryID(id))
	if i < 0 {
		return fmt.Errorf("time entry %q: %w", id, domain.ErrNotFound)
	}

	s.timeEntries = slices.Delete(s.timeEntries, i, i+1)
	if s.active != nil && s.active.ID == id {
		s.active = nil
	}
	s.saveLocked(ctx)
	return nil
}

// TimeEntries returns a snapshot of the time entry collection.
func (s *Store) TimeEntries() []domain.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.timeEntries)
}

// Persistence

// Snapshot returns the complete current state as a persistence snapshot.
func (s *Store) Snapshot() *storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Flush synchronously persists the current state and returns the write
// error, for callers that need durability confirmation (regular mutations
// are fire-and-forget).
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist == nil {
		return nil
	}

	err := s.persist.Save(ctx, s.snapshotLocked())
	s.lastSaveErr = err
	return err
}

// LastSaveErr reports the outcome of the most recent write-through, so a
// UI can surface silent persistence failures.
func (s *Store) LastSaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}

func (s *Store) snapshotLocked() *storage.Snapshot {
	snapshot := storage.NewSnapshot()
	snapshot.State = storage.State{
		Tasks:       slices.Clone(s.tasks),
		Projects:    slices.Clone(s.projects),
		TimeBlocks:  slices.Clone(s.timeBlocks),
		TimeEntries: slices.Clone(s.timeEntries),
	}
	if s.active != nil {
		active := *s.active
		snapshot.State.ActiveTimeEntry = &active
	}
	return snapshot
}

// saveLocked writes the full state through to persistence. Failures are
// recorded and logged, never returned: in-memory mutation has already
// happened and must stay visible.
func (s *Store) saveLocked(ctx context.Context) {
	if s.persist == nil {
		return
	}

	err := s.persist.Save(ctx, s.snapshotLocked())
	s.lastSaveErr = err
	if err != nil {
		s.log.WarnContext(ctx, "failed to persist state", "error", err)
	}
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func byTaskID(id string) func(domain.Task) bool {
	return func(t domain.Task) bool { return t.ID == id }
}

func byProjectID(id string) func(domain.Project) bool {
	return func(p domain.Project) bool { return p.ID == id }
}

func byBlockID(id string) func(domain.TimeBlock) bool {
	return func(b domain.TimeBlock) bool { return b.ID == id }
}

func byEntryID(id string) func(domain.TimeEntry) bool {
	return func(e domain.TimeEntry) bool { return e.ID == id }
}
