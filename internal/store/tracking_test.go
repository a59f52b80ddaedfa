package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func testTime(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC)
}

func newTrackedStore(start time.Time) (*Store, *fakeClock) {
	clock := &fakeClock{current: start}
	return New(WithClock(clock.Now)), clock
}

func TestStartTracking(t *testing.T) {
	ctx := context.Background()
	s, _ := newTrackedStore(testTime(9, 0))

	entry := s.StartTracking(ctx, "t1")

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "t1", entry.TaskID)
	assert.True(t, entry.StartTime.Equal(testTime(9, 0)))
	assert.True(t, entry.Active())
	assert.Zero(t, entry.TotalPausedTime)

	active, tracking := s.ActiveEntry()
	require.True(t, tracking)
	assert.Equal(t, entry.ID, active.ID)
	require.Len(t, s.TimeEntries(), 1)
}

func TestStartTrackingStopsPreviousSession(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	first := s.StartTracking(ctx, "t1")
	clock.Advance(10 * time.Minute)
	second := s.StartTracking(ctx, "t2")

	entries := s.TimeEntries()
	require.Len(t, entries, 2)

	// The implicit stop finalizes the first entry as not completed.
	assert.Equal(t, first.ID, entries[0].ID)
	require.NotNil(t, entries[0].EndTime)
	assert.True(t, entries[0].EndTime.Equal(testTime(9, 10)))
	assert.False(t, entries[0].Completed)

	active, tracking := s.ActiveEntry()
	require.True(t, tracking)
	assert.Equal(t, second.ID, active.ID)
}

func TestAtMostOneActiveEntry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	for i := 0; i < 5; i++ {
		s.StartTracking(ctx, "t1")
		clock.Advance(time.Minute)
	}

	open := 0
	for _, entry := range s.TimeEntries() {
		if entry.Active() {
			open++
		}
	}
	require.Equal(t, 1, open)

	active, tracking := s.ActiveEntry()
	require.True(t, tracking)
	entries := s.TimeEntries()
	assert.Equal(t, entries[len(entries)-1].ID, active.ID,
		"the active entry must be the most recently added open entry")
}

func TestPauseResumeAccounting(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	s.StartTracking(ctx, "t1")

	clock.Advance(5 * time.Second)
	_, changed := s.PauseTracking(ctx)
	require.True(t, changed)

	clock.Advance(3 * time.Second)
	_, changed = s.ResumeTracking(ctx)
	require.True(t, changed)

	clock.Advance(2 * time.Second)
	entry, stopped := s.StopTracking(ctx, true)
	require.True(t, stopped)

	assert.EqualValues(t, 3000, entry.TotalPausedTime)
	require.NotNil(t, entry.EndTime)
	assert.Equal(t, 7*time.Second, entry.EndTime.Sub(entry.StartTime)-entry.TotalPaused())
	assert.True(t, entry.Completed)
	assert.Nil(t, entry.PausedAt)
}

func TestPauseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	s.StartTracking(ctx, "t1")
	clock.Advance(time.Minute)

	first, changed := s.PauseTracking(ctx)
	require.True(t, changed)

	clock.Advance(time.Minute)
	_, changed = s.PauseTracking(ctx)
	assert.False(t, changed, "second pause must be a no-op")

	active, _ := s.ActiveEntry()
	require.NotNil(t, active.PausedAt)
	assert.True(t, active.PausedAt.Equal(*first.PausedAt), "pausedAt must be unchanged")
}

func TestTransitionsAreNoOpsWhenIdle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTrackedStore(testTime(9, 0))

	_, changed := s.PauseTracking(ctx)
	assert.False(t, changed)

	_, changed = s.ResumeTracking(ctx)
	assert.False(t, changed)

	_, changed = s.StopTracking(ctx, true)
	assert.False(t, changed)

	assert.Empty(t, s.TimeEntries())
}

func TestResumeWhileRunningIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTrackedStore(testTime(9, 0))

	s.StartTracking(ctx, "t1")
	_, changed := s.ResumeTracking(ctx)
	assert.False(t, changed)
}

func TestStopWhilePausedFoldsTrailingPause(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	s.StartTracking(ctx, "t1")
	clock.Advance(10 * time.Minute)
	s.PauseTracking(ctx)
	clock.Advance(4 * time.Minute)

	entry, stopped := s.StopTracking(ctx, false)
	require.True(t, stopped)

	// The pause-to-stop gap counts as paused time, so the frozen
	// end - start - totalPaused is the true active time.
	assert.EqualValues(t, (4 * time.Minute).Milliseconds(), entry.TotalPausedTime)
	assert.Equal(t, 10*time.Minute, entry.Worked(clock.Now()))
	assert.Nil(t, entry.PausedAt)
}

func TestTrackingScenarioWriteReport(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	s.StartTracking(ctx, "write-report")

	clock.current = testTime(9, 10)
	s.PauseTracking(ctx)

	clock.current = testTime(9, 12)
	s.ResumeTracking(ctx)

	clock.current = testTime(9, 20)
	entry, stopped := s.StopTracking(ctx, false)
	require.True(t, stopped)

	assert.True(t, entry.StartTime.Equal(testTime(9, 0)))
	require.NotNil(t, entry.EndTime)
	assert.True(t, entry.EndTime.Equal(testTime(9, 20)))
	assert.EqualValues(t, 120000, entry.TotalPausedTime)
	assert.False(t, entry.Completed)
	assert.Equal(t, 18*time.Minute, entry.Worked(clock.Now()))

	_, tracking := s.ActiveEntry()
	assert.False(t, tracking)

	// The finalized entry is written back into the collection.
	entries := s.TimeEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestElapsed(t *testing.T) {
	ctx := context.Background()
	s, clock := newTrackedStore(testTime(9, 0))

	_, live := s.Elapsed()
	assert.False(t, live)

	s.StartTracking(ctx, "t1")
	clock.Advance(10 * time.Minute)

	elapsed, live := s.Elapsed()
	require.True(t, live)
	assert.Equal(t, 10*time.Minute, elapsed)

	s.PauseTracking(ctx)
	clock.Advance(5 * time.Minute)

	elapsed, live = s.Elapsed()
	require.True(t, live)
	assert.Equal(t, 10*time.Minute, elapsed, "elapsed must freeze while paused")
}

func TestTrackingPersistsOnEveryTransition(t *testing.T) {
	ctx := context.Background()
	persist := &fakePersist{}
	clock := &fakeClock{current: testTime(9, 0)}
	s := New(WithPersistence(persist), WithClock(clock.Now))

	s.StartTracking(ctx, "t1")
	clock.Advance(time.Minute)
	s.PauseTracking(ctx)
	clock.Advance(time.Minute)
	s.ResumeTracking(ctx)
	clock.Advance(time.Minute)
	s.StopTracking(ctx, true)

	assert.Equal(t, 4, persist.saves)
	assert.Nil(t, persist.last.State.ActiveTimeEntry)
	require.Len(t, persist.last.State.TimeEntries, 1)
	require.NotNil(t, persist.last.State.TimeEntries[0].EndTime)
}
