package domain

// Category classifies tasks, projects and time blocks into the fixed
// A/B/C taxonomy used throughout the application.
// Value object - immutable string enum.
type Category string

const (
	// CategoryA covers project work.
	CategoryA Category = "A"

	// CategoryB covers routines.
	CategoryB Category = "B"

	// CategoryC covers personal development.
	CategoryC Category = "C"
)

// WeekDay is a day of the week as used by recurring time blocks.
// 0 = Sunday through 6 = Saturday, matching time.Weekday numbering.
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)
