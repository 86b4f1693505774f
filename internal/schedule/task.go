package schedule

import (
	"sort"
	"strings"
	"time"
)

// Task is a single calendar-bound task as held by the remote store.
type Task struct {
	// ID is assigned by the remote store. 0 means the task has not
	// been created yet.
	ID int64 `json:"id"`

	// Name is the display name. Uniqueness compares the trimmed,
	// case-folded form.
	Name string `json:"name"`

	// ScheduledFor is the date and time the task is planned for.
	ScheduledFor time.Time `json:"scheduledFor"`

	// Completed reports whether the task has been marked done.
	Completed bool `json:"completed"`

	// OwnerID identifies the owning user. Set at creation only.
	OwnerID int64 `json:"user_id,omitempty"`
}

// NormalizedName returns the form of a task name used for uniqueness
// comparison: trimmed and case-folded.
func NormalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameDay reports whether a and b fall on the same calendar date,
// evaluated in b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TasksForDay returns the tasks scheduled on the given calendar day,
// preserving the order they were supplied in. The backing store keeps
// server order; no sorting is imposed here.
func TasksForDay(day time.Time, tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if SameDay(t.ScheduledFor, day) {
			out = append(out, t)
		}
	}
	return out
}

// SortByTime returns a copy of tasks ordered by ScheduledFor ascending.
// Display surfaces that need a deterministic order use this; ties keep
// their relative input order.
func SortByTime(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})
	return out
}

// CanDelete reports whether the task may be deleted. Completed tasks
// are immutable with respect to deletion; callers must check this gate
// before issuing any network call.
func CanDelete(t Task) bool {
	return !t.Completed
}

// ToggleCompletion returns a copy of t with Completed flipped. The
// input is never mutated. Toggling does not change name or date, so no
// re-validation is required.
func ToggleCompletion(t Task) Task {
	t.Completed = !t.Completed
	return t
}
