package workout

import (
	"math"
	"time"

	"github.com/balkashynov/wrkout/internal/models"
)

// ExerciseFromTemplate expands a catalog template into a fresh exercise
// whose sets carry targets only.
func ExerciseFromTemplate(tpl models.ExerciseTemplate) models.Exercise {
	count := tpl.Sets
	if count < 1 {
		count = 1
	}
	ex := models.Exercise{
		Name:      tpl.Name,
		Equipment: tpl.Equipment,
		Sets:      make([]models.Set, count),
	}
	for i := range ex.Sets {
		ex.Sets[i] = models.Set{
			TargetReps:      tpl.Reps,
			TargetWeight:    tpl.Weight,
			RestTimeSeconds: tpl.RestSeconds,
			Order:           i,
		}
	}
	return ex
}

// Seed builds a new session from templates in the given order
func Seed(name string, createdAt time.Time, templates []models.ExerciseTemplate) models.Session {
	s := models.NewSession(name, createdAt)
	for _, tpl := range templates {
		s.Exercises = append(s.Exercises, ExerciseFromTemplate(tpl))
	}
	return s
}

// SeedProgram builds a new session from a program workout
func SeedProgram(program models.ProgramWorkout, createdAt time.Time) models.Session {
	templates := make([]models.ExerciseTemplate, 0, len(program.Exercises))
	for _, pe := range program.Exercises {
		templates = append(templates, pe.Template)
	}
	s := Seed(program.Name, createdAt, templates)
	s.Notes = program.Notes
	return s
}

// BuildLog produces the payload for the workout-log API. Only completed
// sets are sent, renumbered from 0; exercises with none are dropped.
func BuildLog(s models.Session, elapsed time.Duration) models.WorkoutLog {
	log := models.WorkoutLog{
		Name:            s.Name,
		Date:            s.CreatedAt.UTC().Format(time.RFC3339),
		DurationMinutes: durationMinutes(elapsed),
		Notes:           s.Notes,
		Exercises:       []models.LoggedExercise{},
	}
	for _, ex := range s.Exercises {
		logged := models.LoggedExercise{
			Name:      ex.Name,
			Equipment: ex.Equipment,
			Order:     len(log.Exercises),
		}
		for _, set := range ex.Sets {
			if !set.Completed {
				continue
			}
			logged.Sets = append(logged.Sets, models.LoggedSet{
				Reps:   set.Reps(),
				Weight: set.Weight(),
				Order:  len(logged.Sets),
			})
		}
		if len(logged.Sets) > 0 {
			log.Exercises = append(log.Exercises, logged)
		}
	}
	return log
}

func durationMinutes(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	minutes := int(math.Round(elapsed.Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}
