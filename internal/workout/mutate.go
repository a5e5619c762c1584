// Package workout holds the pure operations over a session's exercise/set
// tree. Every function returns a new Session and never touches its input.
package workout

import (
	"fmt"

	"github.com/balkashynov/wrkout/internal/models"
)

// Actuals carries user-entered values. Nil fields are left untouched.
type Actuals struct {
	Reps   *int
	Weight *float64
}

// Navigation reports UI-only facts about a cursor move
type Navigation struct {
	From         int
	To           int
	EditingPrior bool // moved back to an earlier exercise
}

// CompleteSet marks a set completed and records the given actuals.
// Missing actuals are pinned to whatever the set currently shows.
func CompleteSet(s models.Session, exerciseIdx, setIdx int, actuals Actuals) (models.Session, error) {
	out, set, err := locateSet(s, exerciseIdx, setIdx)
	if err != nil {
		return s, err
	}
	reps, weight := set.Reps(), set.Weight()
	if actuals.Reps != nil {
		reps = *actuals.Reps
	}
	if actuals.Weight != nil {
		weight = *actuals.Weight
	}
	set.ActualReps = &reps
	set.ActualWeight = &weight
	set.Completed = true
	return out, nil
}

// UncompleteSet clears the completed flag but keeps the entered actuals
func UncompleteSet(s models.Session, exerciseIdx, setIdx int) (models.Session, error) {
	out, set, err := locateSet(s, exerciseIdx, setIdx)
	if err != nil {
		return s, err
	}
	set.Completed = false
	return out, nil
}

// UpdateSet merges the given actuals without touching completion
func UpdateSet(s models.Session, exerciseIdx, setIdx int, partial Actuals) (models.Session, error) {
	out, set, err := locateSet(s, exerciseIdx, setIdx)
	if err != nil {
		return s, err
	}
	if partial.Reps != nil {
		reps := *partial.Reps
		set.ActualReps = &reps
	}
	if partial.Weight != nil {
		weight := *partial.Weight
		set.ActualWeight = &weight
	}
	return out, nil
}

// AddSet appends a set cloned from the exercise's last set. The new set
// carries the last set's actuals, or its targets if none were ever entered.
func AddSet(s models.Session, exerciseIdx int) (models.Session, error) {
	out, ex, err := locateExercise(s, exerciseIdx)
	if err != nil {
		return s, err
	}

	next := models.Set{Order: len(ex.Sets)}
	if n := len(ex.Sets); n > 0 {
		last := ex.Sets[n-1]
		reps, weight := last.Reps(), last.Weight()
		next.TargetReps = last.TargetReps
		next.TargetWeight = last.TargetWeight
		next.ActualReps = &reps
		next.ActualWeight = &weight
		next.RestTimeSeconds = last.RestTimeSeconds
	}
	ex.Sets = append(ex.Sets, next)
	return out, nil
}

// RemoveSet deletes a set and renumbers the rest from 0. The only set of an
// exercise cannot be removed.
func RemoveSet(s models.Session, exerciseIdx, setIdx int) (models.Session, error) {
	out, ex, err := locateExercise(s, exerciseIdx)
	if err != nil {
		return s, err
	}
	if setIdx < 0 || setIdx >= len(ex.Sets) {
		return s, fmt.Errorf("%w: %d", ErrSetIndex, setIdx)
	}
	if len(ex.Sets) == 1 {
		return s, &LastSetError{Exercise: ex.Name}
	}

	ex.Sets = append(ex.Sets[:setIdx], ex.Sets[setIdx+1:]...)
	renumber(ex)
	return out, nil
}

// NavigateToExercise moves the cursor. EditingPrior is a UI hint only and
// never changes stored data.
func NavigateToExercise(s models.Session, idx int) (models.Session, Navigation, error) {
	if len(s.Exercises) == 0 {
		return s, Navigation{}, ErrNoExercises
	}
	if idx < 0 || idx >= len(s.Exercises) {
		return s, Navigation{}, fmt.Errorf("%w: %d", ErrExerciseIndex, idx)
	}
	out := s.Clone()
	nav := Navigation{From: s.CurrentExerciseIndex, To: idx, EditingPrior: idx < s.CurrentExerciseIndex}
	out.CurrentExerciseIndex = idx
	return out, nav, nil
}

// AddExercise appends an exercise. An exercise without sets gets one empty set.
func AddExercise(s models.Session, ex models.Exercise) models.Session {
	out := s.Clone()
	ex = ex.Clone()
	if len(ex.Sets) == 0 {
		ex.Sets = []models.Set{{}}
	}
	renumber(&ex)
	out.Exercises = append(out.Exercises, ex)
	return out
}

// RemoveExercise drops an exercise and keeps the cursor in range
func RemoveExercise(s models.Session, idx int) (models.Session, error) {
	if idx < 0 || idx >= len(s.Exercises) {
		return s, fmt.Errorf("%w: %d", ErrExerciseIndex, idx)
	}
	out := s.Clone()
	out.Exercises = append(out.Exercises[:idx], out.Exercises[idx+1:]...)
	switch {
	case len(out.Exercises) == 0:
		out.CurrentExerciseIndex = 0
	case out.CurrentExerciseIndex > idx, out.CurrentExerciseIndex >= len(out.Exercises):
		out.CurrentExerciseIndex--
	}
	return out, nil
}

// SetNotes replaces the session notes
func SetNotes(s models.Session, notes string) models.Session {
	out := s.Clone()
	out.Notes = notes
	return out
}

// CompletionPercentage is completed sets over all sets, in [0,100]
func CompletionPercentage(s models.Session) float64 {
	completed, total := 0, 0
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			total++
			if set.Completed {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) * 100 / float64(total)
}

// NextIncompleteSet returns the first open set of an exercise, or -1
func NextIncompleteSet(ex models.Exercise) int {
	for i, set := range ex.Sets {
		if !set.Completed {
			return i
		}
	}
	return -1
}

func locateExercise(s models.Session, exerciseIdx int) (models.Session, *models.Exercise, error) {
	if exerciseIdx < 0 || exerciseIdx >= len(s.Exercises) {
		return s, nil, fmt.Errorf("%w: %d", ErrExerciseIndex, exerciseIdx)
	}
	out := s.Clone()
	return out, &out.Exercises[exerciseIdx], nil
}

func locateSet(s models.Session, exerciseIdx, setIdx int) (models.Session, *models.Set, error) {
	out, ex, err := locateExercise(s, exerciseIdx)
	if err != nil {
		return s, nil, err
	}
	if setIdx < 0 || setIdx >= len(ex.Sets) {
		return s, nil, fmt.Errorf("%w: %d", ErrSetIndex, setIdx)
	}
	return out, &ex.Sets[setIdx], nil
}

func renumber(ex *models.Exercise) {
	for i := range ex.Sets {
		ex.Sets[i].Order = i
	}
}
