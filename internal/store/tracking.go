package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/timewise-app/timewise/internal/domain"
)

// Time-tracking state machine over the active entry.
//
// States: Idle (no active entry), Running (active, not paused) and Paused
// (active with a pause in progress). Invalid transitions are reported
// no-ops rather than errors so duplicate UI events stay harmless.

// StartTracking begins a new tracked session for the given task. If a
// session is already running or paused it is stopped first with
// completed=false, preserving the at-most-one-active invariant. The task
// is not required to exist; the reference stays weak.
func (s *Store) StartTracking(ctx context.Context, taskID string) domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.active != nil {
		s.stopLocked(false, now)
	}

	entry := domain.TimeEntry{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		StartTime: now,
	}

	s.timeEntries = append(s.timeEntries, entry)
	s.active = &entry
	s.saveLocked(ctx)
	return entry
}

// PauseTracking marks the start of a pause on the running session.
// Reports false without changing anything when idle or already paused.
func (s *Store) PauseTracking(ctx context.Context) (domain.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.PausedAt != nil {
		return domain.TimeEntry{}, false
	}

	now := s.now()
	s.active.PausedAt = &now
	s.saveLocked(ctx)
	return *s.active, true
}

// ResumeTracking ends the pause in progress, folding its duration into
// the accumulated pause time. Reports false when idle or not paused.
func (s *Store) ResumeTracking(ctx context.Context) (domain.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.PausedAt == nil {
		return domain.TimeEntry{}, false
	}

	now := s.now()
	s.active.TotalPausedTime += now.Sub(*s.active.PausedAt).Milliseconds()
	s.active.PausedAt = nil
	s.saveLocked(ctx)
	return *s.active, true
}

// StopTracking finalizes the active session, recording whether the
// tracked task was completed. Reports false when idle.
func (s *Store) StopTracking(ctx context.Context, completed bool) (domain.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return domain.TimeEntry{}, false
	}

	entry := s.stopLocked(completed, s.now())
	s.saveLocked(ctx)
	return entry, true
}

// stopLocked finalizes the active entry at the given instant and writes
// it back into the collection. A pause still in progress is folded into
// TotalPausedTime first, so end - start - totalPaused is always the true
// active time, including for stop-while-paused.
func (s *Store) stopLocked(completed bool, now time.Time) domain.TimeEntry {
	entry := *s.active

	if entry.PausedAt != nil {
		entry.TotalPausedTime += now.Sub(*entry.PausedAt).Milliseconds()
		entry.PausedAt = nil
	}

	end := now
	entry.EndTime = &end
	entry.Completed = completed

	if i := indexOf(s.timeEntries, byEntryID(entry.ID)); i >= 0 {
		s.timeEntries[i] = entry
	}
	s.active = nil
	return entry
}

// ActiveEntry returns a copy of the currently open entry, if any.
func (s *Store) ActiveEntry() (domain.TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return domain.TimeEntry{}, false
	}
	return *s.active, true
}

// Elapsed returns the live working time of the active session. Derived on
// demand and never persisted.
func (s *Store) Elapsed() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return 0, false
	}
	return s.active.Worked(s.now()), true
}
