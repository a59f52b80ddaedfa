package service

import (
	"cmp"
	"slices"
	"sort"
	"time"

	"github.com/timewise-app/timewise/internal/domain"
	"github.com/timewise-app/timewise/internal/ptr"
)

// Read queries backing the week, inbox and reporting views. All of them
// operate on store snapshots and tolerate dangling references.

// TasksForDay returns the tasks scheduled on the same calendar day as t,
// sorted by their day-scoped order. Lower order sorts first; ties keep
// insertion order.
func (s *Service) TasksForDay(t time.Time) []domain.Task {
	var tasks []domain.Task
	for _, task := range s.store.Tasks() {
		if task.ScheduledOn(t) {
			tasks = append(tasks, task)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].SortOrder() < tasks[j].SortOrder()
	})
	return tasks
}

// UnscheduledTasks returns the inbox: tasks with no scheduled date, in
// insertion order.
func (s *Service) UnscheduledTasks() []domain.Task {
	var tasks []domain.Task
	for _, task := range s.store.Tasks() {
		if task.Date == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// TimeBlocksForWeekDay returns the recurring blocks for the given
// weekday, sorted by start time. Blocks with malformed start times sort
// first rather than disappear.
func (s *Service) TimeBlocksForWeekDay(day domain.WeekDay) []domain.TimeBlock {
	var blocks []domain.TimeBlock
	for _, block := range s.store.TimeBlocks() {
		if block.WeekDay == day {
			blocks = append(blocks, block)
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return clockMinutes(blocks[i].StartTime) < clockMinutes(blocks[j].StartTime)
	})
	return blocks
}

func clockMinutes(s string) int {
	ct, err := domain.NewClockTime(s)
	if err != nil {
		return 0
	}
	return ct.Minutes()
}

// EntriesBetween returns the finalized entries whose end time falls
// within [from, to], inclusive. Open entries are never reported.
func (s *Service) EntriesBetween(from, to time.Time) []domain.TimeEntry {
	var entries []domain.TimeEntry
	for _, entry := range s.store.TimeEntries() {
		if entry.EndTime == nil {
			continue
		}
		end := *entry.EndTime
		if end.Before(from) || end.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// DayRange returns the inclusive bounds of the calendar day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekRange returns the inclusive bounds of the Monday-to-Sunday week
// containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset+1)
	return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// GroupBy selects the grouping axis of a time summary.
type GroupBy string

const (
	GroupByDay      GroupBy = "day"
	GroupByProject  GroupBy = "project"
	GroupByCategory GroupBy = "category"
)

// Group keys for entries that resolve to no project.
const (
	keyNoProject = "no-project"

	labelNoProject      = "No project"
	labelUnknownProject = "Unknown project"
)

// SummaryRow is one aggregated line of a time report.
type SummaryRow struct {
	Key    string
	Label  string
	Worked time.Duration
}

// Summarize aggregates the worked time of finalized entries along the
// given axis. Entries whose task no longer exists are skipped: a deleted
// task takes its sessions out of the report rather than breaking it.
// Rows are sorted by worked time, longest first.
func (s *Service) Summarize(entries []domain.TimeEntry, groupBy GroupBy) []SummaryRow {
	type bucket struct {
		label  string
		worked time.Duration
	}
	buckets := map[string]*bucket{}

	for _, entry := range entries {
		if entry.EndTime == nil {
			continue
		}

		task, ok := s.store.Task(entry.TaskID)
		if !ok {
			continue
		}

		var key, label string
		switch groupBy {
		case GroupByProject:
			key = ptr.Deref(task.ProjectID, keyNoProject)
			label = s.projectLabel(task.ProjectID)
		case GroupByCategory:
			key = string(task.Category)
			label = string(task.Category)
		default:
			key = entry.EndTime.Format("2006-01-02")
			label = key
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: label}
			buckets[key] = b
		}
		b.worked += entry.Worked(*entry.EndTime)
	}

	rows := make([]SummaryRow, 0, len(buckets))
	for key, b := range buckets {
		rows = append(rows, SummaryRow{Key: key, Label: b.label, Worked: b.worked})
	}

	slices.SortFunc(rows, func(a, b SummaryRow) int {
		if a.Worked != b.Worked {
			if a.Worked > b.Worked {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return rows
}

func (s *Service) projectLabel(projectID *string) string {
	if projectID == nil {
		return labelNoProject
	}
	if project, ok := s.store.Project(*projectID); ok {
		return project.Name
	}
	return labelUnknownProject
}
