package domain

import "errors"

// Domain errors returned by the store and the boundary service.

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateID indicates an add was attempted with an id that is
	// already present in the collection.
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrEntryOpen indicates a manually added time entry has no end time.
	// Open entries may only be created by the tracking engine, which owns
	// the at-most-one-active invariant.
	ErrEntryOpen = errors.New("time entry is not finalized")

	// ErrTaskIDRequired indicates a tracking operation without a task id.
	ErrTaskIDRequired = errors.New("task id is required")

	// ErrInvalidCategory indicates a category outside the A/B/C taxonomy.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidWeekDay indicates a weekday outside 0 (Sunday) to 6 (Saturday).
	ErrInvalidWeekDay = errors.New("invalid weekday")

	// ErrInvalidClockTime indicates a wall-clock string not in HH:mm form.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrEndNotAfterStart indicates a time block whose end time is not
	// strictly later than its start time on the same day.
	ErrEndNotAfterStart = errors.New("end time must be after start time")

	// ErrTitleRequired indicates an empty title or name.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates a title longer than the storage limit.
	ErrTitleTooLong = errors.New("title must be 255 characters or less")
)
