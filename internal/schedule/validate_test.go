package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

func TestValidateCandidateNames(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		wantErr   error
	}{
		{
			name:      "empty name",
			candidate: Candidate{Name: "", ScheduledFor: now.Add(time.Hour)},
			wantErr:   ErrNameEmpty,
		},
		{
			name:      "whitespace only name",
			candidate: Candidate{Name: "   \t ", ScheduledFor: now.Add(time.Hour)},
			wantErr:   ErrNameEmpty,
		},
		{
			name:      "missing date",
			candidate: Candidate{Name: "Gym"},
			wantErr:   ErrDateMissing,
		},
		{
			name:      "valid candidate",
			candidate: Candidate{Name: "  Gym  ", ScheduledFor: now.Add(time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ValidateCandidate(tt.candidate, nil, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Gym", task.Name, "name should be trimmed")
			assert.False(t, task.Completed, "new tasks start incomplete")
		})
	}
}

func TestValidateCandidateUniqueness(t *testing.T) {
	day := now.Add(2 * time.Hour)
	existing := []Task{
		{ID: 7, Name: "Gym", ScheduledFor: day},
		{ID: 8, Name: "Laundry", ScheduledFor: day.AddDate(0, 0, 1)},
	}

	t.Run("same day case-folded duplicate rejected on create", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "gym", ScheduledFor: day.Add(time.Hour)}, existing, now)
		assert.ErrorIs(t, err, ErrNameTaken)
	})

	t.Run("duplicate with surrounding whitespace rejected", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "  GYM ", ScheduledFor: day}, existing, now)
		assert.ErrorIs(t, err, ErrNameTaken)
	})

	t.Run("editing the task itself is excluded from its own check", func(t *testing.T) {
		task, err := ValidateCandidate(Candidate{Name: "gym", ScheduledFor: day, ExcludeID: 7}, existing, now)
		require.NoError(t, err)
		assert.Equal(t, int64(7), task.ID)
		assert.Equal(t, "gym", task.Name)
	})

	t.Run("same name on a different day accepted", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "Gym", ScheduledFor: day.AddDate(0, 0, 2)}, existing, now)
		assert.NoError(t, err)
	})

	t.Run("different name on the same day accepted", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "Dentist", ScheduledFor: day}, existing, now)
		assert.NoError(t, err)
	})
}

func TestValidateCandidateTimeBoundary(t *testing.T) {
	t.Run("strictly past rejected", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "Gym", ScheduledFor: now.Add(-time.Second)}, nil, now)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("exactly now accepted", func(t *testing.T) {
		_, err := ValidateCandidate(Candidate{Name: "Gym", ScheduledFor: now}, nil, now)
		assert.NoError(t, err)
	})

	t.Run("past duplicate reports the duplicate first", func(t *testing.T) {
		existing := []Task{{ID: 3, Name: "Gym", ScheduledFor: now.Add(-time.Hour)}}
		_, err := ValidateCandidate(Candidate{Name: "gym", ScheduledFor: now.Add(-time.Hour)}, existing, now)
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestIsValidationError(t *testing.T) {
	for _, err := range []error{ErrNameEmpty, ErrNameTaken, ErrPastSchedule, ErrDateMissing} {
		assert.True(t, IsValidationError(err), err.Error())
	}
	assert.False(t, IsValidationError(ErrTaskCompleted))
	assert.False(t, IsValidationError(nil))
}
