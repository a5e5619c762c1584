package models

import (
	"time"
)

// SessionIDLayout formats CreatedAt into a session ID. Fixed width, UTC, so
// IDs (and the store keys built from them) sort chronologically.
const SessionIDLayout = "2006-01-02T15:04:05.000Z"

// Session is one in-progress, not-yet-submitted workout
type Session struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Notes                string     `json:"notes"`
	Exercises            []Exercise `json:"exercises"`
	CurrentExerciseIndex int        `json:"current_exercise_index"`
	DurationSeconds      int64      `json:"duration_seconds"` // persisted accumulator
	TimerActive          bool       `json:"timer_active"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Exercise is an ordered group of sets within a session
type Exercise struct {
	Name      string `json:"name"`
	Equipment string `json:"equipment"`
	Sets      []Set  `json:"sets"`
}

// Set holds the planned and actual performance for one set.
// Nil actuals mean the user never entered a value.
type Set struct {
	TargetReps      int      `json:"target_reps"`
	TargetWeight    float64  `json:"target_weight"`
	ActualReps      *int     `json:"actual_reps,omitempty"`
	ActualWeight    *float64 `json:"actual_weight,omitempty"`
	RestTimeSeconds int      `json:"rest_time_seconds"`
	Completed       bool     `json:"completed"`
	Order           int      `json:"order"`
}

// NewSession creates an empty session stamped with createdAt
func NewSession(name string, createdAt time.Time) Session {
	createdAt = createdAt.UTC()
	return Session{
		ID:        createdAt.Format(SessionIDLayout),
		Name:      name,
		Exercises: []Exercise{},
		CreatedAt: createdAt,
	}
}

// Reps returns the actual reps, falling back to the target
func (s Set) Reps() int {
	if s.ActualReps != nil {
		return *s.ActualReps
	}
	return s.TargetReps
}

// Weight returns the actual weight, falling back to the target
func (s Set) Weight() float64 {
	if s.ActualWeight != nil {
		return *s.ActualWeight
	}
	return s.TargetWeight
}

// HasActuals reports whether any actual value was ever entered
func (s Set) HasActuals() bool {
	return s.ActualReps != nil || s.ActualWeight != nil
}

// CurrentExercise returns the exercise under the cursor, if any
func (s Session) CurrentExercise() (*Exercise, bool) {
	if s.CurrentExerciseIndex < 0 || s.CurrentExerciseIndex >= len(s.Exercises) {
		return nil, false
	}
	return &s.Exercises[s.CurrentExerciseIndex], true
}

// Clone returns a deep copy so callers can mutate freely
func (s Session) Clone() Session {
	out := s
	out.Exercises = make([]Exercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		out.Exercises[i] = ex.Clone()
	}
	return out
}

// Clone returns a deep copy of the exercise
func (e Exercise) Clone() Exercise {
	out := e
	out.Sets = make([]Set, len(e.Sets))
	for i, set := range e.Sets {
		out.Sets[i] = set.Clone()
	}
	return out
}

// Clone returns a copy that shares no pointers with s
func (s Set) Clone() Set {
	out := s
	if s.ActualReps != nil {
		reps := *s.ActualReps
		out.ActualReps = &reps
	}
	if s.ActualWeight != nil {
		weight := *s.ActualWeight
		out.ActualWeight = &weight
	}
	return out
}
