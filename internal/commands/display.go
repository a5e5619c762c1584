package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/wrkout/internal/lifecycle"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/workout"
)

// printSession prints the workout in the numbering the set commands accept
func printSession(s models.Session, elapsed time.Duration, state lifecycle.State) {
	icon := "⏱️ "
	if state == lifecycle.Paused {
		icon = "⏸️ "
	}
	fmt.Printf("%s %s  %s  (%.0f%% done)\n", icon, s.Name, parser.FormatElapsed(elapsed), workout.CompletionPercentage(s))
	fmt.Printf("Started at: %s\n", s.CreatedAt.Local().Format("02/01 15:04"))
	if s.Notes != "" {
		fmt.Printf("Notes: %s\n", s.Notes)
	}
	fmt.Println()

	for i, ex := range s.Exercises {
		marker := "  "
		if i == s.CurrentExerciseIndex {
			marker = "▶ "
		}
		title := ex.Name
		if ex.Equipment != "" {
			title += " (" + ex.Equipment + ")"
		}
		fmt.Printf("%s%d. %s\n", marker, i+1, title)

		var sets []string
		for j, set := range ex.Sets {
			sets = append(sets, fmt.Sprintf("%s %d:%d×%s", setGlyph(set), j+1, set.Reps(), parser.FormatWeight(set.Weight())))
		}
		fmt.Printf("     %s\n", strings.Join(sets, "  "))
	}
}

// setGlyph marks completed sets, and open sets that already carry entered values
func setGlyph(set models.Set) string {
	switch {
	case set.Completed:
		return "●"
	case set.HasActuals():
		return "◐"
	default:
		return "○"
	}
}

func printSubmitted(log models.WorkoutLog) {
	sets := 0
	for _, ex := range log.Exercises {
		sets += len(ex.Sets)
	}
	fmt.Printf("✅ Logged %q: %d exercises, %d sets, %d min\n", log.Name, len(log.Exercises), sets, log.DurationMinutes)
}
