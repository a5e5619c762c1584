package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/models"
)

func TestSeedProgram(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	program := models.ProgramWorkout{
		Name:  "Leg Day",
		Notes: "slow eccentrics",
		Exercises: []models.ProgramExercise{
			{Position: 0, Template: models.ExerciseTemplate{Name: "Squat", Equipment: "barbell", Sets: 5, Reps: 5, Weight: 100, RestSeconds: 180}},
			{Position: 1, Template: models.ExerciseTemplate{Name: "Lunge", Sets: 0, Reps: 10}},
		},
	}

	s := SeedProgram(program, created)

	assert.Equal(t, "2026-03-14T09:00:00.000Z", s.ID)
	assert.Equal(t, "Leg Day", s.Name)
	assert.Equal(t, "slow eccentrics", s.Notes)
	require.Len(t, s.Exercises, 2)
	require.Len(t, s.Exercises[0].Sets, 5)
	require.Len(t, s.Exercises[1].Sets, 1)
	for i, set := range s.Exercises[0].Sets {
		assert.Equal(t, i, set.Order)
		assert.False(t, set.HasActuals())
		assert.Equal(t, 100.0, set.Weight())
		assert.Equal(t, 180, set.RestTimeSeconds)
	}
}

func TestBuildLog(t *testing.T) {
	s := newTestSession()
	s.Notes = "felt strong"
	s, _ = CompleteSet(s, 0, 0, Actuals{Reps: intPtr(8), Weight: floatPtr(60)})
	s, _ = CompleteSet(s, 0, 2, Actuals{Reps: intPtr(6), Weight: floatPtr(65)})

	log := BuildLog(s, 47*time.Minute+40*time.Second)

	assert.Equal(t, "Push Day", log.Name)
	assert.Equal(t, "2026-03-14T09:00:00Z", log.Date)
	assert.Equal(t, 48, log.DurationMinutes)
	assert.Equal(t, "felt strong", log.Notes)
	require.Len(t, log.Exercises, 1)

	bench := log.Exercises[0]
	assert.Equal(t, "Bench Press", bench.Name)
	assert.Equal(t, "barbell", bench.Equipment)
	assert.Equal(t, 0, bench.Order)
	assert.Equal(t, []models.LoggedSet{
		{Reps: 8, Weight: 60, Order: 0},
		{Reps: 6, Weight: 65, Order: 1},
	}, bench.Sets)
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int
	}{
		{name: "nothing elapsed", elapsed: 0, expected: 0},
		{name: "under a minute rounds up to one", elapsed: 20 * time.Second, expected: 1},
		{name: "rounds down", elapsed: 10*time.Minute + 29*time.Second, expected: 10},
		{name: "rounds half up", elapsed: 10*time.Minute + 30*time.Second, expected: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, durationMinutes(tt.elapsed))
		})
	}
}
