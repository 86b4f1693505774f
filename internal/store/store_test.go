package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/schedule"
)

// fakeAPI is an in-memory backend. It assigns ids on create and records
// the calls it served.
type fakeAPI struct {
	tasks  []schedule.Task
	nextID int64
	calls  []string
	fail   error
}

func newFakeAPI(seed ...schedule.Task) *fakeAPI {
	f := &fakeAPI{tasks: seed, nextID: 100}
	for _, t := range seed {
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *fakeAPI) ListTasks(_ context.Context, userID int64) ([]schedule.Task, error) {
	f.calls = append(f.calls, "list")
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]schedule.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, userID int64, t schedule.Task) error {
	f.calls = append(f.calls, "create")
	if f.fail != nil {
		return f.fail
	}
	t.ID = f.nextID
	t.OwnerID = userID
	f.nextID++
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeAPI) EditTask(_ context.Context, t schedule.Task) error {
	f.calls = append(f.calls, "edit")
	if f.fail != nil {
		return f.fail
	}
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i].Name = t.Name
			f.tasks[i].ScheduledFor = t.ScheduledFor
			f.tasks[i].Completed = t.Completed
			return nil
		}
	}
	return errors.New("no such task")
}

func (f *fakeAPI) DeleteTask(_ context.Context, taskID int64) error {
	f.calls = append(f.calls, "delete")
	if f.fail != nil {
		return f.fail
	}
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("no such task")
}

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	s := New(api, 7, nil, WithClock(func() time.Time { return testNow }))
	require.NoError(t, s.Refresh(context.Background()))
	return s
}

func TestAddValidatesBeforeNetwork(t *testing.T) {
	when := testNow.Add(2 * time.Hour)
	api := newFakeAPI(schedule.Task{ID: 1, Name: "Gym", ScheduledFor: when, OwnerID: 7})
	s := testStore(t, api)
	ctx := context.Background()

	tests := []struct {
		name    string
		task    string
		when    time.Time
		wantErr error
	}{
		{"duplicate same day case folded", "  gym  ", when.Add(time.Hour), schedule.ErrNameTaken},
		{"empty name", "   ", when, schedule.ErrNameEmpty},
		{"missing date", "walk", time.Time{}, schedule.ErrDateMissing},
		{"past time", "walk", testNow.Add(-time.Minute), schedule.ErrPastSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(api.calls)
			err := s.Add(ctx, tt.task, tt.when)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, api.calls, before, "no network call for invalid input")
		})
	}
}

func TestAddCommitsAndRefreshes(t *testing.T) {
	api := newFakeAPI()
	s := testStore(t, api)

	require.NoError(t, s.Add(context.Background(), "  Water plants ", testNow))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Water plants", tasks[0].Name, "name stored trimmed, capitalization kept")
	assert.NotZero(t, tasks[0].ID, "cache holds the server-assigned id")
}

func TestAddAtExactlyNowIsAccepted(t *testing.T) {
	api := newFakeAPI()
	s := testStore(t, api)
	assert.NoError(t, s.Add(context.Background(), "gym", testNow))
}

func TestEditExcludesOwnName(t *testing.T) {
	when := testNow.Add(2 * time.Hour)
	api := newFakeAPI(
		schedule.Task{ID: 1, Name: "Gym", ScheduledFor: when, OwnerID: 7},
		schedule.Task{ID: 2, Name: "Shopping", ScheduledFor: when, OwnerID: 7},
	)
	s := testStore(t, api)
	ctx := context.Background()

	// Re-saving a task under its own name passes the uniqueness check.
	require.NoError(t, s.Edit(ctx, 1, "GYM", when.Add(time.Hour)))

	// Renaming onto another task of the same day does not.
	err := s.Edit(ctx, 2, "gym", when)
	assert.ErrorIs(t, err, schedule.ErrNameTaken)
}

func TestEditPreservesCompletion(t *testing.T) {
	when := testNow.Add(2 * time.Hour)
	api := newFakeAPI(schedule.Task{ID: 1, Name: "Gym", ScheduledFor: when, Completed: true, OwnerID: 7})
	s := testStore(t, api)

	require.NoError(t, s.Edit(context.Background(), 1, "Gym session", when))

	task, ok := s.Get(1)
	require.True(t, ok)
	assert.True(t, task.Completed, "editing fields must not reset completion")
}

func TestToggleFlipsCompletion(t *testing.T) {
	// Scheduled in the past on purpose: completing old tasks is allowed.
	when := testNow.Add(-24 * time.Hour)
	api := newFakeAPI(schedule.Task{ID: 1, Name: "Gym", ScheduledFor: when, OwnerID: 7})
	s := testStore(t, api)
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx, 1))
	task, _ := s.Get(1)
	assert.True(t, task.Completed)

	require.NoError(t, s.Toggle(ctx, 1))
	task, _ = s.Get(1)
	assert.False(t, task.Completed)
}

func TestDeleteRefusesCompletedLocally(t *testing.T) {
	api := newFakeAPI(schedule.Task{ID: 1, Name: "Gym", ScheduledFor: testNow, Completed: true, OwnerID: 7})
	s := testStore(t, api)

	before := len(api.calls)
	err := s.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, schedule.ErrTaskCompleted)
	assert.Len(t, api.calls, before, "completed-task delete never reaches the network")

	_, ok := s.Get(1)
	assert.True(t, ok)
}

func TestDeleteRemovesLocallyWithoutRefetch(t *testing.T) {
	api := newFakeAPI(
		schedule.Task{ID: 1, Name: "Gym", ScheduledFor: testNow, OwnerID: 7},
		schedule.Task{ID: 2, Name: "Shopping", ScheduledFor: testNow, OwnerID: 7},
	)
	s := testStore(t, api)

	before := len(api.calls)
	require.NoError(t, s.Delete(context.Background(), 1))

	_, ok := s.Get(1)
	assert.False(t, ok)
	_, ok = s.Get(2)
	assert.True(t, ok)

	assert.Equal(t, []string{"delete"}, api.calls[before:], "no list refetch after delete")
}

func TestDayViews(t *testing.T) {
	day := time.Date(2030, 5, 2, 0, 0, 0, 0, time.UTC)
	api := newFakeAPI(
		schedule.Task{ID: 1, Name: "Late", ScheduledFor: day.Add(18 * time.Hour), OwnerID: 7},
		schedule.Task{ID: 2, Name: "Early", ScheduledFor: day.Add(8 * time.Hour), Completed: true, OwnerID: 7},
		schedule.Task{ID: 3, Name: "Other day", ScheduledFor: day.AddDate(0, 0, 1), OwnerID: 7},
	)
	s := testStore(t, api)

	tasks := s.TasksOn(day)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Early", tasks[0].Name)
	assert.Equal(t, "Late", tasks[1].Name)

	assert.Equal(t, schedule.DayMixed, s.Classify(day))
	assert.Equal(t, schedule.DayPending, s.Classify(day.AddDate(0, 0, 1)))
	assert.Equal(t, schedule.DayEmpty, s.Classify(day.AddDate(0, 0, 2)))
}

func TestRemoteFailureSurfaces(t *testing.T) {
	api := newFakeAPI(schedule.Task{ID: 1, Name: "Gym", ScheduledFor: testNow, OwnerID: 7})
	s := testStore(t, api)

	api.fail = errors.New("backend down")
	err := s.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, schedule.IsValidationError(err))

	// The cache keeps the task when the remote delete failed.
	_, ok := s.Get(1)
	assert.True(t, ok)
}
