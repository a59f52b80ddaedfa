package domain

import (
	"time"
)

// Task is a single unit of work. It may be scheduled on a day, assigned
// to a project and linked to a time block.
//
// ProjectID and TimeBlockID are weak references: the referenced entity is
// not guaranteed to exist and deleting it does not cascade here. Readers
// must treat a missing referent as "unassigned", not as an error.
type Task struct {
	ID        string   `json:"id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Completed bool     `json:"completed"`
	Category  Category `json:"category" validate:"required,oneof=A B C"`

	ProjectID *string `json:"projectId,omitempty"`

	// Date schedules the task on a calendar day. A midnight value means
	// "date-only", no specific time of day.
	Date *time.Time `json:"date,omitempty"`

	// Duration is the estimated effort in minutes.
	Duration *int `json:"duration,omitempty" validate:"omitempty,min=1"`

	Notes       *string `json:"notes,omitempty"`
	TimeBlockID *string `json:"timeBlockId,omitempty"`

	// Order sorts tasks within the same scheduled day; lower sorts first,
	// ties keep insertion order. Nil sorts as zero.
	Order *int `json:"order,omitempty"`
}

// ScheduledOn reports whether the task is scheduled on the same calendar
// day as t. Unscheduled tasks are never scheduled on any day.
func (task *Task) ScheduledOn(t time.Time) bool {
	if task.Date == nil {
		return false
	}
	y1, m1, d1 := task.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SortOrder returns the day-scoped sort key, treating nil as zero.
func (task *Task) SortOrder() int {
	if task.Order == nil {
		return 0
	}
	return *task.Order
}

// Project groups tasks. Tasks point at projects via weak references, so a
// project can be deleted while tasks still carry its id.
type Project struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Category Category `json:"category" validate:"required,oneof=A B C"`
	Notes    *string  `json:"notes,omitempty"`
}

// TimeBlock is a recurring weekly availability window. It carries no date:
// the same block recurs every week on WeekDay between StartTime and
// EndTime, both "HH:mm" wall-clock strings.
type TimeBlock struct {
	ID          string   `json:"id" validate:"required"`
	WeekDay     WeekDay  `json:"weekDay" validate:"min=0,max=6"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	Category    Category `json:"category" validate:"required,oneof=A B C"`
	Description string   `json:"description" validate:"required"`
}

// Validate checks the wall-clock fields: both times must parse as HH:mm
// and the end must be strictly later than the start on the same day.
// Overnight blocks are not permitted.
func (b *TimeBlock) Validate() error {
	start, err := NewClockTime(b.StartTime)
	if err != nil {
		return err
	}

	end, err := NewClockTime(b.EndTime)
	if err != nil {
		return err
	}

	if !start.Before(end) {
		return ErrEndNotAfterStart
	}

	return nil
}

// TimeEntry is one measured work session for one task.
//
// An entry with no EndTime is open: it is the currently tracked session
// and must equal the store's active entry. PausedAt marks the start of an
// in-progress pause; TotalPausedTime accumulates completed pauses in
// milliseconds.
type TimeEntry struct {
	ID        string     `json:"id" validate:"required"`
	TaskID    string     `json:"taskId" validate:"required"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	PausedAt  *time.Time `json:"pausedAt,omitempty"`

	// TotalPausedTime is the accumulated paused duration in milliseconds.
	// Monotonically non-decreasing while the entry is open.
	TotalPausedTime int64 `json:"totalPausedTime" validate:"min=0"`

	// Completed records whether the tracked task was complete at the
	// moment tracking stopped.
	Completed bool `json:"completed"`
}

// Active reports whether the entry is still open.
func (e *TimeEntry) Active() bool {
	return e.EndTime == nil
}

// Paused reports whether the entry is open and currently paused.
func (e *TimeEntry) Paused() bool {
	return e.Active() && e.PausedAt != nil
}

// TotalPaused returns the accumulated pause time as a duration.
func (e *TimeEntry) TotalPaused() time.Duration {
	return time.Duration(e.TotalPausedTime) * time.Millisecond
}

// Worked returns the active working time of the entry as of now.
//
// For an open entry this is derived on demand and never persisted:
// wall time since the start, minus accumulated pauses, minus the
// in-progress pause if there is one. For a finalized entry the value is
// frozen at end - start - total paused.
func (e *TimeEntry) Worked(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}

	worked := end.Sub(e.StartTime) - e.TotalPaused()
	if e.Active() && e.PausedAt != nil {
		worked -= now.Sub(*e.PausedAt)
	}

	return worked
}
