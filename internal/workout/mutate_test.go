package workout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func newTestSession() models.Session {
	s := models.NewSession("Push Day", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	s.Exercises = []models.Exercise{
		ExerciseFromTemplate(models.ExerciseTemplate{Name: "Bench Press", Equipment: "barbell", Sets: 3, Reps: 8, Weight: 60, RestSeconds: 120}),
		ExerciseFromTemplate(models.ExerciseTemplate{Name: "Dips", Equipment: "bodyweight", Sets: 1, Reps: 12}),
	}
	return s
}

func TestCompleteSet(t *testing.T) {
	s := newTestSession()

	out, err := CompleteSet(s, 0, 1, Actuals{Reps: intPtr(7), Weight: floatPtr(62.5)})
	require.NoError(t, err)

	set := out.Exercises[0].Sets[1]
	assert.True(t, set.Completed)
	assert.Equal(t, 7, set.Reps())
	assert.Equal(t, 62.5, set.Weight())

	// input untouched
	assert.False(t, s.Exercises[0].Sets[1].Completed)
	assert.Nil(t, s.Exercises[0].Sets[1].ActualReps)
}

func TestCompleteSetPinsDisplayedValues(t *testing.T) {
	s := newTestSession()

	out, err := CompleteSet(s, 0, 0, Actuals{})
	require.NoError(t, err)

	set := out.Exercises[0].Sets[0]
	require.NotNil(t, set.ActualReps)
	require.NotNil(t, set.ActualWeight)
	assert.Equal(t, 8, *set.ActualReps)
	assert.Equal(t, 60.0, *set.ActualWeight)
}

func TestUncompleteSetKeepsActuals(t *testing.T) {
	s := newTestSession()
	s, err := CompleteSet(s, 0, 0, Actuals{Reps: intPtr(5), Weight: floatPtr(70)})
	require.NoError(t, err)

	out, err := UncompleteSet(s, 0, 0)
	require.NoError(t, err)

	set := out.Exercises[0].Sets[0]
	assert.False(t, set.Completed)
	assert.Equal(t, 5, set.Reps())
	assert.Equal(t, 70.0, set.Weight())
}

func TestUpdateSetMergesWithoutCompleting(t *testing.T) {
	s := newTestSession()

	out, err := UpdateSet(s, 0, 2, Actuals{Weight: floatPtr(55)})
	require.NoError(t, err)

	set := out.Exercises[0].Sets[2]
	assert.False(t, set.Completed)
	assert.Nil(t, set.ActualReps)
	assert.Equal(t, 8, set.Reps())
	assert.Equal(t, 55.0, set.Weight())

	out, err = CompleteSet(out, 0, 2, Actuals{})
	require.NoError(t, err)
	out, err = UpdateSet(out, 0, 2, Actuals{Reps: intPtr(6)})
	require.NoError(t, err)
	assert.True(t, out.Exercises[0].Sets[2].Completed)
	assert.Equal(t, 6, out.Exercises[0].Sets[2].Reps())
}

func TestAddSet(t *testing.T) {
	t.Run("clones last actuals", func(t *testing.T) {
		s := newTestSession()
		s, err := UpdateSet(s, 0, 2, Actuals{Reps: intPtr(8), Weight: floatPtr(50)})
		require.NoError(t, err)

		out, err := AddSet(s, 0)
		require.NoError(t, err)

		sets := out.Exercises[0].Sets
		require.Len(t, sets, 4)
		added := sets[3]
		assert.Equal(t, 3, added.Order)
		assert.Equal(t, 8, added.Reps())
		assert.Equal(t, 50.0, added.Weight())
		assert.False(t, added.Completed)
		assert.Equal(t, 120, added.RestTimeSeconds)
	})

	t.Run("falls back to targets", func(t *testing.T) {
		s := newTestSession()

		out, err := AddSet(s, 1)
		require.NoError(t, err)

		sets := out.Exercises[1].Sets
		require.Len(t, sets, 2)
		assert.Equal(t, 12, sets[1].Reps())
		assert.Equal(t, 0.0, sets[1].Weight())
		assert.Equal(t, 1, sets[1].Order)
	})

	t.Run("does not alias previous set", func(t *testing.T) {
		s := newTestSession()
		s, _ = UpdateSet(s, 0, 2, Actuals{Reps: intPtr(8)})
		out, err := AddSet(s, 0)
		require.NoError(t, err)

		out, err = UpdateSet(out, 0, 3, Actuals{Reps: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 8, out.Exercises[0].Sets[2].Reps())
	})
}

func TestRemoveSet(t *testing.T) {
	s := newTestSession()
	s, _ = UpdateSet(s, 0, 2, Actuals{Reps: intPtr(4)})

	out, err := RemoveSet(s, 0, 0)
	require.NoError(t, err)

	sets := out.Exercises[0].Sets
	require.Len(t, sets, 2)
	for i, set := range sets {
		assert.Equal(t, i, set.Order)
	}
	assert.Equal(t, 4, sets[1].Reps())
	assert.Len(t, s.Exercises[0].Sets, 3)
}

func TestRemoveLastSetRejected(t *testing.T) {
	s := newTestSession()

	out, err := RemoveSet(s, 1, 0)

	var lastSet *LastSetError
	require.True(t, errors.As(err, &lastSet))
	assert.Equal(t, "Dips", lastSet.Exercise)
	assert.Equal(t, s, out)
	assert.Len(t, out.Exercises[1].Sets, 1)
}

func TestIndexErrors(t *testing.T) {
	s := newTestSession()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"complete bad exercise", func() error { _, err := CompleteSet(s, 5, 0, Actuals{}); return err }, ErrExerciseIndex},
		{"complete bad set", func() error { _, err := CompleteSet(s, 0, 9, Actuals{}); return err }, ErrSetIndex},
		{"uncomplete negative", func() error { _, err := UncompleteSet(s, -1, 0); return err }, ErrExerciseIndex},
		{"add set bad exercise", func() error { _, err := AddSet(s, 2); return err }, ErrExerciseIndex},
		{"remove bad set", func() error { _, err := RemoveSet(s, 0, 3); return err }, ErrSetIndex},
		{"navigate out of range", func() error { _, _, err := NavigateToExercise(s, 2); return err }, ErrExerciseIndex},
		{"remove exercise out of range", func() error { _, err := RemoveExercise(s, 4); return err }, ErrExerciseIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.want)
		})
	}
}

func TestNavigateToExercise(t *testing.T) {
	s := newTestSession()

	out, nav, err := NavigateToExercise(s, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, out.CurrentExerciseIndex)
	assert.False(t, nav.EditingPrior)

	back, nav, err := NavigateToExercise(out, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, back.CurrentExerciseIndex)
	assert.True(t, nav.EditingPrior)
	assert.Equal(t, CompletionPercentage(out), CompletionPercentage(back))

	_, _, err = NavigateToExercise(models.Session{}, 0)
	assert.ErrorIs(t, err, ErrNoExercises)
}

func TestRemoveExerciseKeepsCursorInRange(t *testing.T) {
	s := newTestSession()
	s, _, _ = NavigateToExercise(s, 1)

	out, err := RemoveExercise(s, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.CurrentExerciseIndex)
	require.Len(t, out.Exercises, 1)

	out, err = RemoveExercise(out, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Exercises)
	assert.Equal(t, 0, out.CurrentExerciseIndex)
}

func TestAddExerciseGetsOneSet(t *testing.T) {
	s := AddExercise(newTestSession(), models.Exercise{Name: "Plank"})

	require.Len(t, s.Exercises, 3)
	require.Len(t, s.Exercises[2].Sets, 1)
	assert.Equal(t, 0, s.Exercises[2].Sets[0].Order)
}

func TestCompletionPercentage(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, 0.0, CompletionPercentage(s))
	assert.Equal(t, 0.0, CompletionPercentage(models.Session{}))

	var err error
	for ei, ex := range s.Exercises {
		for si := range ex.Sets {
			s, err = CompleteSet(s, ei, si, Actuals{})
			require.NoError(t, err)
			if ei == len(s.Exercises)-1 && si == len(ex.Sets)-1 {
				break
			}
			assert.Less(t, CompletionPercentage(s), 100.0)
		}
	}
	assert.Equal(t, 100.0, CompletionPercentage(s))

	before := CompletionPercentage(s)
	s, err = UncompleteSet(s, 0, 1)
	require.NoError(t, err)
	assert.Less(t, CompletionPercentage(s), before)
	assert.Equal(t, 75.0, CompletionPercentage(s))
}
