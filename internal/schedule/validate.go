package schedule

import (
	"errors"
	"strings"
	"time"
)

// Sentinel validation errors. These are evaluated before any mutating
// network call, so the remote store never sees input that fails here.
var (
	// ErrNameEmpty indicates the candidate name is empty after trimming.
	ErrNameEmpty = errors.New("task name is empty")

	// ErrNameTaken indicates another task of the same user already uses
	// this name on the same calendar day.
	ErrNameTaken = errors.New("task already exists on this date")

	// ErrPastSchedule indicates the scheduled time is strictly in the past.
	ErrPastSchedule = errors.New("cannot schedule a task in the past")

	// ErrDateMissing indicates no date/time was supplied.
	ErrDateMissing = errors.New("date and time are required")

	// ErrTaskCompleted indicates a deletion was attempted on a completed
	// task. No network call is issued for such requests.
	ErrTaskCompleted = errors.New("completed task cannot be deleted")
)

// Candidate is a task submission under validation: a new task when
// ExcludeID is zero, otherwise an edit of the task with that ID.
type Candidate struct {
	Name         string
	ScheduledFor time.Time

	// ExcludeID is the ID of the task being edited, excluded from its
	// own uniqueness check. Zero means the candidate is a new task.
	ExcludeID int64
}

// ValidateCandidate decides whether a candidate task may be committed
// against the user's existing tasks. On success it returns the
// normalized task: name trimmed, Completed false, ID carried over from
// ExcludeID for edits.
//
// The time boundary is inclusive: a candidate scheduled exactly at now
// is accepted, anything strictly earlier is rejected.
func ValidateCandidate(c Candidate, existing []Task, now time.Time) (Task, error) {
	// TrimSpace only; case folding is reserved for comparisons so the
	// stored name keeps the user's capitalization.
	trimmed := strings.TrimSpace(c.Name)
	if trimmed == "" {
		return Task{}, ErrNameEmpty
	}
	if c.ScheduledFor.IsZero() {
		return Task{}, ErrDateMissing
	}

	folded := NormalizedName(c.Name)
	for _, t := range existing {
		if t.ID == c.ExcludeID && c.ExcludeID != 0 {
			continue
		}
		if SameDay(t.ScheduledFor, c.ScheduledFor) && NormalizedName(t.Name) == folded {
			return Task{}, ErrNameTaken
		}
	}

	if c.ScheduledFor.Before(now) {
		return Task{}, ErrPastSchedule
	}

	return Task{
		ID:           c.ExcludeID,
		Name:         trimmed,
		ScheduledFor: c.ScheduledFor,
		Completed:    false,
	}, nil
}

// IsValidationError reports whether err is one of the local validation
// sentinels, i.e. an error that is surfaced to the user as a field
// message and never sent to the network.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameEmpty) ||
		errors.Is(err, ErrNameTaken) ||
		errors.Is(err, ErrPastSchedule) ||
		errors.Is(err, ErrDateMissing)
}
