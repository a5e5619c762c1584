package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/app"
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Add or remove exercises in the current workout",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <exercise>",
	Short: "Append an exercise (template name or \"Name @equipment 3x8 60kg rest:90s\")",
	Args:  cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		ex, err := exerciseFromSpec(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(svc *app.Service) error {
			if err := svc.AddExercise(ex); err != nil {
				return err
			}
			fmt.Printf("➕ Added %s (%d sets) as exercise %d\n", ex.Name, len(ex.Sets), len(svc.Session().Exercises))
			return nil
		})
	}),
}

var exerciseRmCmd = &cobra.Command{
	Use:     "rm <exercise>",
	Aliases: []string{"remove"},
	Short:   "Remove an exercise",
	Args:    cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[0], "exercise")
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(svc *app.Service) error {
			name := ""
			if exercises := svc.Session().Exercises; idx < len(exercises) {
				name = exercises[idx].Name
			}
			if err := svc.RemoveExercise(idx); err != nil {
				return err
			}
			fmt.Printf("➖ Removed %s\n", name)
			return nil
		})
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto <exercise>",
	Short: "Move to another exercise",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[0], "exercise")
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(svc *app.Service) error {
			nav, err := svc.Navigate(idx)
			if err != nil {
				return err
			}
			current := svc.Session().Exercises[nav.To]
			fmt.Printf("👉 %s\n", current.Name)
			if nav.EditingPrior {
				fmt.Println("Editing an earlier exercise")
			}
			return nil
		})
	}),
}

var noteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Set the workout notes",
	Args:  cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			if err := svc.SetNotes(strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("📝 Notes saved")
			return nil
		})
	}),
}

func init() {
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseRmCmd)
}
