package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanDelete(t *testing.T) {
	assert.True(t, CanDelete(Task{Name: "Gym"}))
	assert.False(t, CanDelete(Task{Name: "Gym", Completed: true}))
}

func TestToggleCompletion(t *testing.T) {
	orig := Task{ID: 1, Name: "Gym", Completed: false}

	toggled := ToggleCompletion(orig)
	assert.True(t, toggled.Completed)
	assert.False(t, orig.Completed, "input must not be mutated")
	assert.Equal(t, orig.Name, toggled.Name)
	assert.Equal(t, orig.ID, toggled.ID)

	assert.False(t, ToggleCompletion(toggled).Completed, "toggle is an involution")
}

func TestSameDay(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(day.Add(23*time.Hour+59*time.Minute), day))
	assert.True(t, SameDay(day, day))
	assert.False(t, SameDay(day.Add(24*time.Hour), day))
	assert.False(t, SameDay(day.Add(-time.Minute), day))
}

func TestTasksForDayPreservesStoreOrder(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	// Server order is newest-first; the filter must not reorder.
	tasks := []Task{
		{ID: 3, Name: "Evening", ScheduledFor: day.Add(20 * time.Hour)},
		{ID: 1, Name: "Morning", ScheduledFor: day.Add(8 * time.Hour)},
		{ID: 9, Name: "Elsewhere", ScheduledFor: day.AddDate(0, 0, 3)},
		{ID: 2, Name: "Noon", ScheduledFor: day.Add(12 * time.Hour)},
	}

	got := TasksForDay(day, tasks)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestSortByTime(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	tasks := []Task{
		{ID: 3, ScheduledFor: day.Add(20 * time.Hour)},
		{ID: 1, ScheduledFor: day.Add(8 * time.Hour)},
		{ID: 2, ScheduledFor: day.Add(12 * time.Hour)},
	}

	got := SortByTime(tasks)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
	// Input untouched.
	assert.Equal(t, int64(3), tasks[0].ID)
}

func TestNormalizedName(t *testing.T) {
	assert.Equal(t, "gym", NormalizedName("  GyM "))
	assert.Equal(t, "", NormalizedName("   "))
}
