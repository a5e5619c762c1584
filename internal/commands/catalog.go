package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/db"
	"github.com/balkashynov/wrkout/internal/parser"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage exercise templates",
}

var templateAddCmd = &cobra.Command{
	Use:   "add <exercise>",
	Short: "Add an exercise template",
	Long: `Add an exercise template to the catalog.

Smart parsing syntax:
  @equipment  - barbell, dumbbell (db), kettlebell (kb), machine, cable, band, bodyweight (bw)
  3x8         - Sets x reps
  60kg        - Target weight (lb/lbs converted to kg)
  rest:90s    - Rest between sets (90, 90s, 2m, 1:30)

Example:
  wrkout template add "Bench Press @barbell 3x8 60kg rest:90s"`,
	Args: cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		parsed := parser.ParseExercise(strings.Join(args, " "))
		if parsed.HasErrors() {
			return fmt.Errorf("found issues with parsing: %s", strings.Join(parsed.Errors, ", "))
		}

		req := db.CreateTemplateRequest{
			Name:        parsed.Name,
			Equipment:   parsed.Equipment,
			Sets:        parsed.Sets,
			Reps:        parsed.Reps,
			Weight:      parsed.Weight,
			RestSeconds: parsed.RestSeconds,
		}

		// Explicit flags take precedence
		if sets, _ := cmd.Flags().GetInt("sets"); sets > 0 {
			req.Sets = sets
		}
		if reps, _ := cmd.Flags().GetInt("reps"); reps > 0 {
			req.Reps = reps
		}
		if weight, _ := cmd.Flags().GetFloat64("weight"); weight > 0 {
			req.Weight = weight
		}
		if rest, _ := cmd.Flags().GetString("rest"); rest != "" {
			d, err := parser.ParseRest(rest)
			if err != nil {
				return fmt.Errorf("invalid rest: %w", err)
			}
			req.RestSeconds = int(d.Seconds())
		}
		if req.RestSeconds == 0 {
			req.RestSeconds = int(cfg.Rest.Default.Seconds())
		}

		tpl, err := db.NewCatalog(db.DB).CreateTemplate(req)
		if err != nil {
			return fmt.Errorf("creating template: %w", err)
		}

		fmt.Printf("Created template #%d: %s\n", tpl.ID, tpl.Name)
		if tpl.Equipment != "" {
			fmt.Printf("  Equipment: %s\n", tpl.Equipment)
		}
		fmt.Printf("  Target: %d × %d @ %s\n", tpl.Sets, tpl.Reps, parser.FormatWeight(tpl.Weight))
		fmt.Printf("  Rest: %ds\n", tpl.RestSeconds)
		return nil
	}),
}

var templateListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List exercise templates",
	Args:    cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		templates, err := db.NewCatalog(db.DB).GetTemplates()
		if err != nil {
			return fmt.Errorf("fetching templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates found. Use 'wrkout template add \"Bench Press @barbell 3x8 60kg\"' to create one.")
			return nil
		}

		fmt.Printf("%-4s %-30s %-12s %-8s %-10s %s\n", "ID", "NAME", "EQUIPMENT", "TARGET", "WEIGHT", "REST")
		fmt.Println(strings.Repeat("-", 75))
		for _, tpl := range templates {
			fmt.Printf("%-4d %-30s %-12s %-8s %-10s %ds\n",
				tpl.ID,
				truncate(tpl.Name, 30),
				tpl.Equipment,
				fmt.Sprintf("%dx%d", tpl.Sets, tpl.Reps),
				parser.FormatWeight(tpl.Weight),
				tpl.RestSeconds)
		}
		return nil
	}),
}

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Manage program workouts",
}

var programAddCmd = &cobra.Command{
	Use:   "add <name> <template...>",
	Short: "Save a program from existing templates",
	Long: `Save a named program made of catalog templates, in order.

Example:
  wrkout program add "Push Day" "Bench Press" "Overhead Press" Dips`,
	Args: cobra.MinimumNArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		program, err := db.NewCatalog(db.DB).CreateProgram(args[0], notes, args[1:])
		if err != nil {
			return fmt.Errorf("creating program: %w", err)
		}
		fmt.Printf("Created program #%d: %s (%d exercises)\n", program.ID, program.Name, len(program.Exercises))
		return nil
	}),
}

var programListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List program workouts",
	Args:    cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		programs, err := db.NewCatalog(db.DB).GetPrograms()
		if err != nil {
			return fmt.Errorf("fetching programs: %w", err)
		}
		if len(programs) == 0 {
			fmt.Println("No programs found. Use 'wrkout program add <name> <template...>' to create one.")
			return nil
		}

		for _, p := range programs {
			var names []string
			for _, pe := range p.Exercises {
				names = append(names, pe.Template.Name)
			}
			fmt.Printf("#%-3d %s\n", p.ID, p.Name)
			fmt.Printf("     %s\n", strings.Join(names, " → "))
			if p.Notes != "" {
				fmt.Printf("     %s\n", p.Notes)
			}
		}
		return nil
	}),
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func init() {
	templateAddCmd.Flags().Int("sets", 0, "Number of sets")
	templateAddCmd.Flags().Int("reps", 0, "Target reps per set")
	templateAddCmd.Flags().Float64("weight", 0, "Target weight in kg")
	templateAddCmd.Flags().String("rest", "", "Rest between sets (90, 90s, 2m, 1:30)")

	programAddCmd.Flags().String("notes", "", "Program notes, copied into each workout")

	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateListCmd)
	programCmd.AddCommand(programAddCmd)
	programCmd.AddCommand(programListCmd)
}
