package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDay(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	at := func(hour int, completed bool) Task {
		return Task{Name: "t", ScheduledFor: day.Add(time.Duration(hour) * time.Hour), Completed: completed}
	}

	tests := []struct {
		name  string
		tasks []Task
		want  DayStatus
	}{
		{
			name: "no tasks at all",
			want: DayEmpty,
		},
		{
			name:  "tasks only on other days",
			tasks: []Task{{Name: "x", ScheduledFor: day.AddDate(0, 0, 1)}},
			want:  DayEmpty,
		},
		{
			name:  "single completed task",
			tasks: []Task{at(9, true)},
			want:  DayCompleted,
		},
		{
			name:  "all completed",
			tasks: []Task{at(9, true), at(14, true)},
			want:  DayCompleted,
		},
		{
			name:  "mixed completion",
			tasks: []Task{at(9, true), at(14, false)},
			want:  DayMixed,
		},
		{
			name:  "none completed",
			tasks: []Task{at(9, false), at(14, false)},
			want:  DayPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDay(day, tt.tasks))
		})
	}
}

// Every day maps to exactly one bucket regardless of task mix.
func TestClassifyDayIsTotal(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	known := map[DayStatus]bool{DayEmpty: true, DayCompleted: true, DayMixed: true, DayPending: true}

	for n := 0; n < 4; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			var tasks []Task
			for i := 0; i < n; i++ {
				tasks = append(tasks, Task{
					Name:         "t",
					ScheduledFor: day.Add(time.Duration(i) * time.Hour),
					Completed:    mask&(1<<i) != 0,
				})
			}
			got := ClassifyDay(day, tasks)
			assert.True(t, known[got], "unexpected status %v for n=%d mask=%d", got, n, mask)
			if n == 0 {
				assert.Equal(t, DayEmpty, got)
			}
		}
	}
}

func TestDayStatusString(t *testing.T) {
	assert.Equal(t, "empty", DayEmpty.String())
	assert.Equal(t, "completed", DayCompleted.String())
	assert.Equal(t, "mixed", DayMixed.String())
	assert.Equal(t, "pending", DayPending.String())
	assert.Equal(t, "unknown", DayStatus(42).String())
}
