package schedule

import "time"

// DayStatus is the aggregate completion status of one calendar day,
// used for calendar display.
type DayStatus int

const (
	// DayEmpty means no tasks are scheduled on the day.
	DayEmpty DayStatus = iota

	// DayCompleted means every task on the day is completed. A day with
	// a single completed task is DayCompleted, never DayMixed.
	DayCompleted

	// DayMixed means at least one but not all tasks are completed.
	DayMixed

	// DayPending means no task on the day is completed.
	DayPending
)

// String returns the display name of the status.
func (s DayStatus) String() string {
	switch s {
	case DayEmpty:
		return "empty"
	case DayCompleted:
		return "completed"
	case DayMixed:
		return "mixed"
	case DayPending:
		return "pending"
	default:
		return "unknown"
	}
}

// ClassifyDay maps a calendar day to exactly one DayStatus based on the
// tasks scheduled on it. The classification is total: every day falls
// into one of the four buckets.
func ClassifyDay(day time.Time, tasks []Task) DayStatus {
	dayTasks := TasksForDay(day, tasks)
	if len(dayTasks) == 0 {
		return DayEmpty
	}

	completed := 0
	for _, t := range dayTasks {
		if t.Completed {
			completed++
		}
	}

	switch {
	case completed == len(dayTasks):
		return DayCompleted
	case completed > 0:
		return DayMixed
	default:
		return DayPending
	}
}
