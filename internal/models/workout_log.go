package models

// WorkoutLog is the finalized payload handed to the remote workout-log API
type WorkoutLog struct {
	Name            string           `json:"name"`
	Date            string           `json:"date"`
	DurationMinutes int              `json:"durationMinutes"`
	Notes           string           `json:"notes"`
	Exercises       []LoggedExercise `json:"exercises"`
}

// LoggedExercise is one exercise in a WorkoutLog
type LoggedExercise struct {
	Name      string      `json:"name"`
	Equipment string      `json:"equipment"`
	Order     int         `json:"order"`
	Sets      []LoggedSet `json:"sets"`
}

// LoggedSet is one completed set in a WorkoutLog
type LoggedSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Order  int     `json:"order"`
}
