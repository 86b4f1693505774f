package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taskcal/internal/instrumentation"
	"taskcal/internal/logging"
	"taskcal/internal/schedule"
)

// API is the slice of the backend client the store needs. Satisfied by
// *api.Client; tests substitute a fake.
type API interface {
	ListTasks(ctx context.Context, userID int64) ([]schedule.Task, error)
	CreateTask(ctx context.Context, userID int64, t schedule.Task) error
	EditTask(ctx context.Context, t schedule.Task) error
	DeleteTask(ctx context.Context, taskID int64) error
}

// Store is the validated, cached task collection for one user. Safe for
// concurrent use.
type Store struct {
	api     API
	userID  int64
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	now     func() time.Time

	mu    sync.RWMutex
	tasks []schedule.Task
}

// Option tweaks a Store. Used by tests to pin the clock.
type Option func(*Store)

// WithClock overrides the time source used for past-schedule checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMetrics attaches operation metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New builds a store for the given user.
func New(client API, userID int64, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		api:     client,
		userID:  userID,
		logger:  logging.WithComponent(logger, "store"),
		metrics: &instrumentation.Metrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the cache with the server's current task list.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.logger.Debug("task cache refreshed", slog.Int("count", len(tasks)))
	return nil
}

// Tasks returns a copy of every cached task.
func (s *Store) Tasks() []schedule.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schedule.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksOn returns the tasks scheduled on the given calendar day, sorted
// by scheduled time.
func (s *Store) TasksOn(day time.Time) []schedule.Task {
	s.mu.RLock()
	tasks := schedule.TasksForDay(day, s.tasks)
	s.mu.RUnlock()
	return schedule.SortByTime(tasks)
}

// Get looks a cached task up by id.
func (s *Store) Get(id int64) (schedule.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return schedule.Task{}, false
}

// Classify reports the completion state of the given calendar day.
func (s *Store) Classify(day time.Time) schedule.DayStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return schedule.ClassifyDay(day, s.tasks)
}

// Add validates a new task and commits it. The cache is refreshed from
// the server afterwards so the new task carries its server-assigned id.
func (s *Store) Add(ctx context.Context, name string, when time.Time) error {
	return s.mutate(ctx, "add", func(ctx context.Context) error {
		task, err := s.validate(schedule.Candidate{Name: name, ScheduledFor: when})
		if err != nil {
			return err
		}
		if err := s.api.CreateTask(ctx, s.userID, task); err != nil {
			return err
		}
		return s.Refresh(ctx)
	})
}

// Edit validates new values for an existing task and commits them. The
// task's own name is excluded from the uniqueness check, so saving
// without renaming always passes.
func (s *Store) Edit(ctx context.Context, id int64, name string, when time.Time) error {
	return s.mutate(ctx, "edit", func(ctx context.Context) error {
		prev, ok := s.Get(id)
		if !ok {
			return fmt.Errorf("task %d not found", id)
		}
		task, err := s.validate(schedule.Candidate{Name: name, ScheduledFor: when, ExcludeID: id})
		if err != nil {
			return err
		}
		task.Completed = prev.Completed
		if err := s.api.EditTask(ctx, task); err != nil {
			return err
		}
		return s.Refresh(ctx)
	})
}

// Toggle flips a task's completion state. Toggling bypasses scheduling
// validation: completing an old task is always allowed.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	return s.mutate(ctx, "toggle", func(ctx context.Context) error {
		prev, ok := s.Get(id)
		if !ok {
			return fmt.Errorf("task %d not found", id)
		}
		if err := s.api.EditTask(ctx, schedule.ToggleCompletion(prev)); err != nil {
			return err
		}
		return s.Refresh(ctx)
	})
}

// Delete removes a pending task. Completed tasks are refused locally
// and no network call is made for them. On success the task is removed
// from the cache directly, without a refetch.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", func(ctx context.Context) error {
		prev, ok := s.Get(id)
		if !ok {
			return fmt.Errorf("task %d not found", id)
		}
		if !schedule.CanDelete(prev) {
			return schedule.ErrTaskCompleted
		}
		if err := s.api.DeleteTask(ctx, id); err != nil {
			return err
		}

		s.mu.Lock()
		kept := s.tasks[:0]
		for _, t := range s.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
		s.mu.Unlock()
		return nil
	})
}

// validate runs the candidate against the current cache snapshot.
func (s *Store) validate(c schedule.Candidate) (schedule.Task, error) {
	s.mu.RLock()
	existing := s.tasks
	s.mu.RUnlock()
	return schedule.ValidateCandidate(c, existing, s.now())
}

// mutate wraps an operation with logging and metrics.
func (s *Store) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	s.metrics.RecordTaskOperation(ctx, op, status, duration)

	if err != nil && !schedule.IsValidationError(err) {
		s.logger.Warn("task operation failed",
			logging.Operation(op),
			logging.Err(err),
		)
	}
	return err
}
