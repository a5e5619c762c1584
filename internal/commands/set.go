package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/app"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/workout"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Record and edit sets of the current workout",
	Long: `Record and edit sets. Exercises and sets are numbered from 1 as shown by
'wrkout status'. When the set number is left out, the next open set of the
current exercise is used.

Examples:
  wrkout set done                  # complete the next set at target
  wrkout set done --reps 6         # complete it with 6 reps
  wrkout set done 2 3 -w 62.5      # complete exercise 2, set 3 at 62.5kg
  wrkout set edit 1 1 --reps 7     # fix a logged value
  wrkout set undo 1 1
  wrkout set add 2
  wrkout set rm 2 4`,
}

var setDoneCmd = &cobra.Command{
	Use:   "done [exercise] [set]",
	Short: "Complete a set",
	Args:  cobra.MaximumNArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		actuals, err := actualsFromFlags(cmd)
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(svc *app.Service) error {
			ex, set, err := resolveSet(svc, args)
			if err != nil {
				return err
			}
			if err := svc.CompleteSet(ex, set, actuals); err != nil {
				return err
			}
			done := svc.Session().Exercises[ex].Sets[set]
			fmt.Printf("✅ %s set %d: %d × %s\n", svc.Session().Exercises[ex].Name, set+1, done.Reps(), parser.FormatWeight(done.Weight()))
			fmt.Printf("Rest: %s\n", parser.FormatElapsed(svc.Rest().Remaining()))
			return nil
		})
	}),
}

var setUndoCmd = &cobra.Command{
	Use:   "undo [exercise] [set]",
	Short: "Mark a completed set as open again",
	Args:  cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			ex, set, err := parseSetArgs(args)
			if err != nil {
				return err
			}
			if err := svc.UncompleteSet(ex, set); err != nil {
				return err
			}
			fmt.Printf("↩️  Set %d of exercise %d reopened\n", set+1, ex+1)
			return nil
		})
	}),
}

var setEditCmd = &cobra.Command{
	Use:   "edit [exercise] [set]",
	Short: "Change the reps or weight of a set",
	Args:  cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		actuals, err := actualsFromFlags(cmd)
		if err != nil {
			return err
		}
		if actuals.Reps == nil && actuals.Weight == nil {
			return fmt.Errorf("nothing to change: pass --reps and/or --weight")
		}
		return withSession(cmd.Context(), func(svc *app.Service) error {
			ex, set, err := parseSetArgs(args)
			if err != nil {
				return err
			}
			if err := svc.UpdateSet(ex, set, actuals); err != nil {
				return err
			}
			updated := svc.Session().Exercises[ex].Sets[set]
			fmt.Printf("✏️  Set %d of exercise %d: %d × %s\n", set+1, ex+1, updated.Reps(), parser.FormatWeight(updated.Weight()))
			return nil
		})
	}),
}

var setAddCmd = &cobra.Command{
	Use:   "add [exercise]",
	Short: "Append a set to an exercise",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			ex := svc.Session().CurrentExerciseIndex
			if len(args) == 1 {
				n, err := parseIndex(args[0], "exercise")
				if err != nil {
					return err
				}
				ex = n
			}
			if err := svc.AddSet(ex); err != nil {
				return err
			}
			fmt.Printf("➕ %s now has %d sets\n", svc.Session().Exercises[ex].Name, len(svc.Session().Exercises[ex].Sets))
			return nil
		})
	}),
}

var setRmCmd = &cobra.Command{
	Use:     "rm [exercise] [set]",
	Aliases: []string{"remove"},
	Short:   "Remove a set",
	Args:    cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			ex, set, err := parseSetArgs(args)
			if err != nil {
				return err
			}
			err = svc.RemoveSet(ex, set)
			var lastSet *workout.LastSetError
			if errors.As(err, &lastSet) {
				return fmt.Errorf("%w. Use 'wrkout exercise rm %d' to drop the exercise", err, ex+1)
			}
			if err != nil {
				return err
			}
			fmt.Printf("➖ Removed set %d of exercise %d\n", set+1, ex+1)
			return nil
		})
	}),
}

// resolveSet picks the set from args, defaulting to the next open set of
// the current exercise
func resolveSet(svc *app.Service, args []string) (int, int, error) {
	session := svc.Session()
	ex := session.CurrentExerciseIndex

	switch len(args) {
	case 2:
		return parseSetArgs(args)
	case 1:
		n, err := parseIndex(args[0], "exercise")
		if err != nil {
			return 0, 0, err
		}
		ex = n
	}

	if ex < 0 || ex >= len(session.Exercises) {
		return 0, 0, fmt.Errorf("%w: %d", workout.ErrExerciseIndex, ex+1)
	}
	set := workout.NextIncompleteSet(session.Exercises[ex])
	if set < 0 {
		return 0, 0, fmt.Errorf("all sets of %s are done. Use 'wrkout set add' for another", session.Exercises[ex].Name)
	}
	return ex, set, nil
}

func parseSetArgs(args []string) (int, int, error) {
	ex, err := parseIndex(args[0], "exercise")
	if err != nil {
		return 0, 0, err
	}
	set, err := parseIndex(args[1], "set")
	if err != nil {
		return 0, 0, err
	}
	return ex, set, nil
}

// parseIndex converts a 1-based CLI number to a 0-based index
func parseIndex(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s number '%s'", what, arg)
	}
	return n - 1, nil
}

// actualsFromFlags reads --reps and --weight; values must not be negative
func actualsFromFlags(cmd *cobra.Command) (workout.Actuals, error) {
	var actuals workout.Actuals
	if cmd.Flags().Changed("reps") {
		reps, err := cmd.Flags().GetInt("reps")
		if err != nil {
			return workout.Actuals{}, err
		}
		if reps < 0 {
			return workout.Actuals{}, fmt.Errorf("invalid reps %d: must be 0 or more", reps)
		}
		actuals.Reps = &reps
	}
	if cmd.Flags().Changed("weight") {
		weight, err := cmd.Flags().GetFloat64("weight")
		if err != nil {
			return workout.Actuals{}, err
		}
		if weight < 0 {
			return workout.Actuals{}, fmt.Errorf("invalid weight %s: must be 0 or more", parser.FormatWeight(weight))
		}
		actuals.Weight = &weight
	}
	return actuals, nil
}

func addActualsFlags(c *cobra.Command) {
	c.Flags().IntP("reps", "r", 0, "Reps performed")
	c.Flags().Float64P("weight", "w", 0, "Weight used in kg")
}

func init() {
	addActualsFlags(setDoneCmd)
	addActualsFlags(setEditCmd)

	setCmd.AddCommand(setDoneCmd)
	setCmd.AddCommand(setUndoCmd)
	setCmd.AddCommand(setEditCmd)
	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setRmCmd)
}
