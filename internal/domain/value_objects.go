package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewCategory validates and creates a Category.
func NewCategory(s string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(s)))

	switch category {
	case CategoryA, CategoryB, CategoryC:
		return category, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, s)
	}
}

// NewWeekDay validates and creates a WeekDay.
func NewWeekDay(d int) (WeekDay, error) {
	if d < int(Sunday) || d > int(Saturday) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeekDay, d)
	}
	return WeekDay(d), nil
}

// ClockTime is a wall-clock time of day without a date component,
// as used by recurring time blocks ("HH:mm").
// Value object - immutable.
type ClockTime struct {
	hour   int
	minute int
}

// NewClockTime parses an "HH:mm" string into a ClockTime.
// Accepts 00:00 through 23:59.
func NewClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	return ClockTime{hour: hour, minute: minute}, nil
}

// Minutes returns the time of day as minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.hour*60 + c.minute
}

// Before reports whether c is strictly earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

// String returns the "HH:mm" representation.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}
