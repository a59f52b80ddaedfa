// Package service is the boundary in front of the store: it validates
// entities before they reach the dumb CRUD surface, applies the
// cross-entity tracking rules, and answers the read queries the views
// are built from.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/timewise-app/timewise/internal/domain"
	"github.com/timewise-app/timewise/internal/store"
)

// Service provides the validated operation surface consumed by the UI.
type Service struct {
	store    *store.Store
	validate *validator.Validate
	log      *slog.Logger
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a Service over the given store.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		validate: validator.New(),
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Store exposes the underlying store for read-only collaborators such as
// the elapsed-time ticker.
func (s *Service) Store() *store.Store {
	return s.store
}

// Tasks

// AddTask validates and stores a new task, generating an id if the caller
// did not supply one.
func (s *Service) AddTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	if err := s.validate.Struct(task); err != nil {
		return domain.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.store.AddTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTask validates and replaces an existing task. When the update
// flips the task to completed while it is the subject of the active time
// entry, the running session is stopped with completed=true.
func (s *Service) UpdateTask(ctx context.Context, task domain.Task) error {
	if err := s.validate.Struct(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	prior, exists := s.store.Task(task.ID)
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return err
	}

	if exists && !prior.Completed && task.Completed {
		if active, tracking := s.store.ActiveEntry(); tracking && active.TaskID == task.ID {
			entry, _ := s.store.StopTracking(ctx, true)
			s.log.InfoContext(ctx, "stopped tracking for completed task",
				"taskId", task.ID, "entryId", entry.ID)
		}
	}

	return nil
}

// DeleteTask removes a task. Deleting a missing task is a success:
// double-fired UI events are tolerated by design.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.DebugContext(ctx, "delete of missing task ignored", "taskId", id)
			return nil
		}
		return err
	}
	return nil
}

// Projects

// AddProject validates and stores a new project.
func (s *Service) AddProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	if err := s.validate.Struct(project); err != nil {
		return domain.Project{}, fmt.Errorf("invalid project: %w", err)
	}

	if err := s.store.AddProject(ctx, project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// UpdateProject validates and replaces an existing project.
func (s *Service) UpdateProject(ctx context.Context, project domain.Project) error {
	if err := s.validate.Struct(project); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	return s.store.UpdateProject(ctx, project)
}

// DeleteProject removes a project. Tasks referencing it keep their
// dangling projectId; deleting a missing project is a success.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.DebugContext(ctx, "delete of missing project ignored", "projectId", id)
			return nil
		}
		return err
	}
	return nil
}

// Time blocks

// AddTimeBlock validates and stores a new weekly time block.
func (s *Service) AddTimeBlock(ctx context.Context, block domain.TimeBlock) (domain.TimeBlock, error) {
	if block.ID == "" {
		block.ID = uuid.New().String()
	}

	if err := s.validate.Struct(block); err != nil {
		return domain.TimeBlock{}, fmt.Errorf("invalid time block: %w", err)
	}
	if err := block.Validate(); err != nil {
		return domain.TimeBlock{}, fmt.Errorf("invalid time block: %w", err)
	}

	if err := s.store.AddTimeBlock(ctx, block); err != nil {
		return domain.TimeBlock{}, err
	}
	return block, nil
}

// UpdateTimeBlock validates and replaces an existing time block.
func (s *Service) UpdateTimeBlock(ctx context.Context, block domain.TimeBlock) error {
	if err := s.validate.Struct(block); err != nil {
		return fmt.Errorf("invalid time block: %w", err)
	}
	if err := block.Validate(); err != nil {
		return fmt.Errorf("invalid time block: %w", err)
	}
	return s.store.UpdateTimeBlock(ctx, block)
}

// DeleteTimeBlock removes a time block; missing ids are tolerated.
func (s *Service) DeleteTimeBlock(ctx context.Context, id string) error {
	if err := s.store.DeleteTimeBlock(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.DebugContext(ctx, "delete of missing time block ignored", "timeBlockId", id)
			return nil
		}
		return err
	}
	return nil
}

// Time entries

// AddTimeEntry records a manually entered, finalized work session.
func (s *Service) AddTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if err := s.validate.Struct(entry); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("invalid time entry: %w", err)
	}
	if entry.Active() {
		return domain.TimeEntry{}, fmt.Errorf("invalid time entry: %w", domain.ErrEntryOpen)
	}

	if err := s.store.AddTimeEntry(ctx, entry); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

// Tracking

// StartTracking begins tracking the given task. The task is not required
// to exist (the reference is weak), but a missing task is logged since it
// usually signals a UI bug.
func (s *Service) StartTracking(ctx context.Context, taskID string) (domain.TimeEntry, error) {
	if taskID == "" {
		return domain.TimeEntry{}, domain.ErrTaskIDRequired
	}

	if _, ok := s.store.Task(taskID); !ok {
		s.log.WarnContext(ctx, "starting tracking for unknown task", "taskId", taskID)
	}

	return s.store.StartTracking(ctx, taskID), nil
}

// PauseTracking pauses the running session; a no-op when idle or paused.
func (s *Service) PauseTracking(ctx context.Context) (domain.TimeEntry, bool) {
	return s.store.PauseTracking(ctx)
}

// ResumeTracking resumes the paused session; a no-op when idle or running.
func (s *Service) ResumeTracking(ctx context.Context) (domain.TimeEntry, bool) {
	return s.store.ResumeTracking(ctx)
}

// StopTracking finalizes the active session; a no-op when idle.
func (s *Service) StopTracking(ctx context.Context, completed bool) (domain.TimeEntry, bool) {
	return s.store.StopTracking(ctx, completed)
}
