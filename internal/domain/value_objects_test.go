package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "valid title", input: "Write report", want: "Write report"},
		{name: "trims whitespace", input: "  Write report  ", want: "Write report"},
		{name: "empty", input: "", wantErr: ErrTitleRequired},
		{name: "only whitespace", input: "   ", wantErr: ErrTitleRequired},
		{name: "too long", input: string(make([]byte, 256)), wantErr: ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := NewTitle(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, title.String())
		})
	}
}

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "category A", input: "A", want: CategoryA},
		{name: "category B", input: "B", want: CategoryB},
		{name: "category C", input: "C", want: CategoryC},
		{name: "lowercase accepted", input: "a", want: CategoryA},
		{name: "unknown", input: "D", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := NewCategory(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, category)
		})
	}
}

func TestNewWeekDay(t *testing.T) {
	for d := 0; d <= 6; d++ {
		day, err := NewWeekDay(d)
		require.NoError(t, err)
		assert.Equal(t, WeekDay(d), day)
	}

	_, err := NewWeekDay(-1)
	require.ErrorIs(t, err, ErrInvalidWeekDay)

	_, err = NewWeekDay(7)
	require.ErrorIs(t, err, ErrInvalidWeekDay)
}

func TestNewClockTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		minutes int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", minutes: 0},
		{name: "morning", input: "09:30", minutes: 570},
		{name: "end of day", input: "23:59", minutes: 1439},
		{name: "missing padding", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "not a time", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := NewClockTime(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidClockTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, ct.Minutes())
			assert.Equal(t, tt.input, ct.String())
		})
	}
}

func TestClockTimeBefore(t *testing.T) {
	earlier, err := NewClockTime("09:00")
	require.NoError(t, err)
	later, err := NewClockTime("17:30")
	require.NoError(t, err)

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.False(t, earlier.Before(earlier))
}
