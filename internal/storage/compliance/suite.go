package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewise-app/timewise/internal/domain"
	"github.com/timewise-app/timewise/internal/ptr"
	"github.com/timewise-app/timewise/internal/storage"
)

// RunSnapshotStoreComplianceTest runs a standard set of tests against a
// storage.Store implementation.
// setup is a function that returns a fresh (clean) store for the test.
// The returned cleanup function is called after each subtest.
func RunSnapshotStoreComplianceTest(t *testing.T, setup func() (storage.Store, func())) {
	t.Run("LoadEmptySlot", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		snapshot, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, storage.SchemaVersion, snapshot.Version)
		assert.Empty(t, snapshot.State.Tasks)
		assert.Empty(t, snapshot.State.Projects)
		assert.Empty(t, snapshot.State.TimeBlocks)
		assert.Empty(t, snapshot.State.TimeEntries)
		assert.Nil(t, snapshot.State.ActiveTimeEntry)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		end := start.Add(45 * time.Minute)

		snapshot := storage.NewSnapshot()
		snapshot.State.Tasks = []domain.Task{
			{ID: uuid.New().String(), Title: "Write report", Category: domain.CategoryA, Order: ptr.To(1)},
		}
		snapshot.State.Projects = []domain.Project{
			{ID: uuid.New().String(), Name: "Reports", Category: domain.CategoryA},
		}
		snapshot.State.TimeBlocks = []domain.TimeBlock{
			{ID: uuid.New().String(), WeekDay: domain.Tuesday, StartTime: "08:00", EndTime: "09:30", Category: domain.CategoryB, Description: "Exercise"},
		}
		snapshot.State.TimeEntries = []domain.TimeEntry{
			{ID: uuid.New().String(), TaskID: snapshot.State.Tasks[0].ID, StartTime: start, EndTime: &end, TotalPausedTime: 60000},
		}

		require.NoError(t, store.Save(ctx, snapshot))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, snapshot, loaded)
	})

	t.Run("OverwriteKeepsLastSave", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		first := storage.NewSnapshot()
		first.State.Tasks = []domain.Task{
			{ID: "t1", Title: "First", Category: domain.CategoryA},
		}
		require.NoError(t, store.Save(ctx, first))

		second := storage.NewSnapshot()
		second.State.Tasks = []domain.Task{
			{ID: "t1", Title: "Renamed", Category: domain.CategoryA},
			{ID: "t2", Title: "Second", Category: domain.CategoryB},
		}
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded.State.Tasks, 2)
		assert.Equal(t, "Renamed", loaded.State.Tasks[0].Title)
	})

	t.Run("ActiveEntryPersisted", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		pausedAt := time.Date(2026, 3, 9, 10, 5, 0, 0, time.UTC)
		snapshot := storage.NewSnapshot()
		active := domain.TimeEntry{
			ID:              uuid.New().String(),
			TaskID:          "t1",
			StartTime:       pausedAt.Add(-5 * time.Minute),
			PausedAt:        &pausedAt,
			TotalPausedTime: 30000,
		}
		snapshot.State.TimeEntries = []domain.TimeEntry{active}
		snapshot.State.ActiveTimeEntry = &active

		require.NoError(t, store.Save(ctx, snapshot))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded.State.ActiveTimeEntry)
		assert.Equal(t, active.ID, loaded.State.ActiveTimeEntry.ID)
		require.NotNil(t, loaded.State.ActiveTimeEntry.PausedAt)
		assert.True(t, loaded.State.ActiveTimeEntry.PausedAt.Equal(pausedAt))
	})
}
