package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/app"
	"github.com/balkashynov/wrkout/internal/db"
	"github.com/balkashynov/wrkout/internal/lifecycle"
	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/tui"
	"github.com/balkashynov/wrkout/internal/workout"
)

var errNoWorkout = errors.New("no unfinished workout. Use 'wrkout start' to begin one")

var startCmd = &cobra.Command{
	Use:   "start [template...]",
	Short: "Start a workout",
	Long: `Start a workout from catalog templates, a saved program, or ad-hoc exercises.
Opens the interactive session screen by default, use --no-ui to start the timer
and return to the shell.

Examples:
  wrkout start "Bench Press" "Overhead Press"
  wrkout start --program "Push Day"
  wrkout start -e "Bench Press @barbell 3x8 60kg rest:90s" -e "Dips 3x12"
  wrkout start --program "Push Day" --no-ui`,
	Args: cobra.ArbitraryArgs,
	Run:  withDB(runStart),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an unfinished workout",
	Long: `Resume the most recent unfinished workout. Time spent away while the timer was
running (closed terminal, crash, suspended laptop) is counted.`,
	Args: cobra.NoArgs,
	Run:  withDB(runResume),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current workout",
	Args:  cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		rec := newService(nil).Recover(cmd.Context())
		if rec == nil {
			fmt.Println("No workout in progress")
			return nil
		}

		state := lifecycle.Paused
		if rec.Timer.Active() {
			state = lifecycle.ActiveBackground
		}
		printSession(rec.Session, rec.Timer.CurrentElapsed(), state)
		return nil
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the workout timer",
	Args:  cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			if !svc.Pause() {
				fmt.Println("Timer is already paused")
				return nil
			}
			fmt.Printf("⏸️  Paused at %s\n", parser.FormatElapsed(svc.Elapsed()))
			return nil
		})
	}),
}

var unpauseCmd = &cobra.Command{
	Use:     "unpause",
	Aliases: []string{"continue"},
	Short:   "Restart a paused workout timer",
	Args:    cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			if !svc.ResumeTimer() {
				fmt.Println("Timer is already running")
				return nil
			}
			fmt.Printf("▶️  Timer running from %s\n", parser.FormatElapsed(svc.Elapsed()))
			return nil
		})
	}),
}

var submitCmd = &cobra.Command{
	Use:     "submit",
	Aliases: []string{"finish"},
	Short:   "Finish the workout and send it to your workout log",
	Args:    cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(svc *app.Service) error {
			log, err := svc.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w (the workout is kept; run 'wrkout submit' again or 'wrkout discard')", err)
			}
			printSubmitted(log)
			return nil
		})
	}),
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw away the unfinished workout",
	Args:  cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) error {
		svc := newService(nil)
		rec := svc.Recover(cmd.Context())
		if rec == nil {
			id, err := svc.DiscardUnreadable(cmd.Context())
			if err != nil {
				return err
			}
			if id == "" {
				return errNoWorkout
			}
			fmt.Printf("🗑️  Removed unreadable workout snapshot %s\n", id)
			return nil
		}
		if err := svc.DiscardRecovered(cmd.Context(), rec); err != nil {
			return err
		}
		fmt.Printf("🗑️  Discarded %q (%s)\n", rec.Session.Name, parser.FormatElapsed(rec.Timer.CurrentElapsed()))
		return nil
	}),
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, ticks := newSessionService()

	if rec := svc.Recover(ctx); rec != nil {
		return fmt.Errorf("unfinished workout %q from %s. Use 'wrkout resume' or 'wrkout discard' first",
			rec.Session.Name, rec.Session.CreatedAt.Local().Format("02/01 15:04"))
	}

	session, err := buildSession(cmd, args)
	if err != nil {
		return err
	}
	if err := svc.Start(session); err != nil {
		return err
	}

	noUI, _ := cmd.Flags().GetBool("no-ui")
	if noUI {
		fmt.Printf("🏋️  Started %q with %d exercises\n", session.Name, len(session.Exercises))
		fmt.Printf("Started at: %s\n", session.CreatedAt.Local().Format("15:04:05"))
		return svc.Suspend(ctx)
	}
	return runTUI(ctx, svc, ticks)
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, ticks := newSessionService()

	rec := svc.Recover(ctx)
	if rec == nil {
		return errNoWorkout
	}
	if err := svc.Resume(rec); err != nil {
		return err
	}

	noUI, _ := cmd.Flags().GetBool("no-ui")
	if noUI {
		printSession(svc.Session(), svc.Elapsed(), svc.State())
		return svc.Suspend(ctx)
	}
	return runTUI(ctx, svc, ticks)
}

// runTUI runs the session screen and hands an unfinished session to the
// next process when the screen closes
func runTUI(ctx context.Context, svc *app.Service, ticks <-chan time.Duration) error {
	tuiErr := tui.RunSessionTUI(svc, ticks)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := svc.Suspend(shutdownCtx); err != nil && tuiErr == nil {
		tuiErr = err
	}
	if err := svc.Close(shutdownCtx); err != nil && tuiErr == nil {
		tuiErr = err
	}
	return tuiErr
}

// newSessionService builds a service whose display ticks feed the TUI
func newSessionService() (*app.Service, <-chan time.Duration) {
	ticks := make(chan time.Duration, 1)
	svc := newService(func(d time.Duration) {
		select {
		case ticks <- d:
		default:
		}
	})
	return svc, ticks
}

// withSession binds the unfinished workout for one command and suspends it
// afterwards, so a running timer keeps running between invocations
func withSession(ctx context.Context, fn func(*app.Service) error) error {
	svc := newService(nil)
	rec := svc.Recover(ctx)
	if rec == nil {
		return errNoWorkout
	}
	if err := svc.Resume(rec); err != nil {
		return err
	}
	logger := logging.WithSession(svc.Session().ID)

	err := fn(svc)
	if err != nil {
		logger.Debug("Session command rejected", "error", err)
	} else if svc.Bound() {
		logger.Debug("Session command applied", "elapsed", svc.Elapsed(), "state", svc.State().String())
	}

	if serr := svc.Suspend(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// buildSession seeds a session from --program, template names and
// --exercise specs, in that order
func buildSession(cmd *cobra.Command, args []string) (models.Session, error) {
	catalog := db.NewCatalog(db.DB)
	now := time.Now()

	name, _ := cmd.Flags().GetString("name")
	programName, _ := cmd.Flags().GetString("program")
	specs, _ := cmd.Flags().GetStringArray("exercise")

	var session models.Session
	if programName != "" {
		program, err := catalog.GetProgramByName(programName)
		if err != nil {
			return models.Session{}, err
		}
		session = workout.SeedProgram(*program, now)
	} else {
		if name == "" {
			name = "Workout " + now.Format("Mon 02 Jan")
		}
		session = models.NewSession(name, now)
	}
	if name != "" {
		session.Name = name
	}

	templates, err := catalog.FindTemplates(args)
	if err != nil {
		return models.Session{}, err
	}
	for _, tpl := range templates {
		session = workout.AddExercise(session, workout.ExerciseFromTemplate(tpl))
	}

	for _, spec := range specs {
		ex, err := exerciseFromSpec(spec)
		if err != nil {
			return models.Session{}, err
		}
		session = workout.AddExercise(session, ex)
	}

	if len(session.Exercises) == 0 {
		return models.Session{}, fmt.Errorf("no exercises: pass template names, --program or --exercise")
	}
	session.CurrentExerciseIndex = 0
	return session, nil
}

// exerciseFromSpec turns "Bench Press @barbell 3x8 60kg" into an exercise,
// falling back to a catalog template of the same name for missing fields
func exerciseFromSpec(spec string) (models.Exercise, error) {
	parsed := parser.ParseExercise(spec)
	if parsed.HasErrors() {
		return models.Exercise{}, fmt.Errorf("invalid exercise %q: %s", spec, strings.Join(parsed.Errors, ", "))
	}
	if parsed.Name == "" {
		return models.Exercise{}, fmt.Errorf("invalid exercise %q: name is required", spec)
	}

	tpl := models.ExerciseTemplate{Name: parsed.Name, Sets: 3, Reps: 10}
	if known, err := db.NewCatalog(db.DB).GetTemplateByName(parsed.Name); err == nil {
		tpl = *known
	}
	if parsed.Equipment != "" {
		tpl.Equipment = parsed.Equipment
	}
	if parsed.Sets > 0 {
		tpl.Sets = parsed.Sets
	}
	if parsed.Reps > 0 {
		tpl.Reps = parsed.Reps
	}
	if parsed.Weight > 0 {
		tpl.Weight = parsed.Weight
	}
	if parsed.RestSeconds > 0 {
		tpl.RestSeconds = parsed.RestSeconds
	}
	return workout.ExerciseFromTemplate(tpl), nil
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start the timer without the interactive screen")
	startCmd.Flags().StringP("name", "n", "", "Workout name")
	startCmd.Flags().StringP("program", "p", "", "Seed from a saved program")
	startCmd.Flags().StringArrayP("exercise", "e", nil, "Ad-hoc exercise, e.g. \"Squat @barbell 5x5 100kg rest:3m\"")

	resumeCmd.Flags().Bool("no-ui", false, "Print the workout instead of opening the session screen")
}
