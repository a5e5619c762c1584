package workout

import (
	"errors"
	"fmt"
)

var (
	ErrExerciseIndex = errors.New("exercise index out of range")
	ErrSetIndex      = errors.New("set index out of range")
	ErrNoExercises   = errors.New("session has no exercises")
)

// LastSetError is returned when removing an exercise's only set
type LastSetError struct {
	Exercise string
}

func (e *LastSetError) Error() string {
	return fmt.Sprintf("cannot remove the last set of %q", e.Exercise)
}
