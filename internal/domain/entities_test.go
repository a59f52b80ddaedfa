package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeBlockValidate(t *testing.T) {
	tests := []struct {
		name    string
		block   TimeBlock
		wantErr error
	}{
		{
			name:  "valid block",
			block: TimeBlock{WeekDay: Monday, StartTime: "09:00", EndTime: "10:30", Category: CategoryB, Description: "Morning routine"},
		},
		{
			name:    "end equals start",
			block:   TimeBlock{WeekDay: Monday, StartTime: "09:00", EndTime: "09:00", Category: CategoryB, Description: "Empty"},
			wantErr: ErrEndNotAfterStart,
		},
		{
			name:    "end before start",
			block:   TimeBlock{WeekDay: Monday, StartTime: "17:00", EndTime: "09:00", Category: CategoryB, Description: "Overnight"},
			wantErr: ErrEndNotAfterStart,
		},
		{
			name:    "malformed start",
			block:   TimeBlock{WeekDay: Monday, StartTime: "nine", EndTime: "10:00", Category: CategoryB, Description: "Broken"},
			wantErr: ErrInvalidClockTime,
		},
		{
			name:    "malformed end",
			block:   TimeBlock{WeekDay: Monday, StartTime: "09:00", EndTime: "10:61", Category: CategoryB, Description: "Broken"},
			wantErr: ErrInvalidClockTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTaskScheduledOn(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	withTime := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)

	scheduled := Task{ID: "t1", Title: "Plan week", Category: CategoryA, Date: &day}
	assert.True(t, scheduled.ScheduledOn(day))
	assert.True(t, scheduled.ScheduledOn(withTime), "time of day must not matter")
	assert.False(t, scheduled.ScheduledOn(day.AddDate(0, 0, 1)))

	unscheduled := Task{ID: "t2", Title: "Inbox item", Category: CategoryC}
	assert.False(t, unscheduled.ScheduledOn(day))
}

func TestTimeEntryWorked(t *testing.T) {
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	t.Run("running entry", func(t *testing.T) {
		entry := TimeEntry{ID: "e1", TaskID: "t1", StartTime: start}
		now := start.Add(10 * time.Minute)
		assert.Equal(t, 10*time.Minute, entry.Worked(now))
	})

	t.Run("running entry with accumulated pauses", func(t *testing.T) {
		entry := TimeEntry{ID: "e1", TaskID: "t1", StartTime: start, TotalPausedTime: (2 * time.Minute).Milliseconds()}
		now := start.Add(10 * time.Minute)
		assert.Equal(t, 8*time.Minute, entry.Worked(now))
	})

	t.Run("paused entry excludes the in-progress pause", func(t *testing.T) {
		pausedAt := start.Add(5 * time.Minute)
		entry := TimeEntry{ID: "e1", TaskID: "t1", StartTime: start, PausedAt: &pausedAt}
		now := start.Add(10 * time.Minute)
		assert.Equal(t, 5*time.Minute, entry.Worked(now))
	})

	t.Run("finalized entry is frozen", func(t *testing.T) {
		end := start.Add(20 * time.Minute)
		entry := TimeEntry{
			ID:              "e1",
			TaskID:          "t1",
			StartTime:       start,
			EndTime:         &end,
			TotalPausedTime: (2 * time.Minute).Milliseconds(),
		}
		assert.Equal(t, 18*time.Minute, entry.Worked(end.Add(time.Hour)))
		assert.False(t, entry.Active())
		assert.False(t, entry.Paused())
	})
}
