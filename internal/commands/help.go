package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for wrkout",
	Long:  `Display detailed help for all wrkout commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 _      __  ____   __ __  ____   __  __ ______
| | /| / / / __ \ / //_/ / __ \ / / / //_  __/
| |/ |/ / / /_/ // ,<   / /_/ // /_/ /  / /
|__/|__/ /_/ |_|/_/|_|  \____/ \____/  /_/

wrkout - terminal workout logger

WORKOUT:

  start [template...]     Start a workout and open the session screen
    -p, --program         Seed from a saved program
    -e, --exercise        Ad-hoc exercise (repeatable)
    -n, --name            Workout name
    --no-ui               Start the timer and return to the shell

    Example:
      wrkout start -p "Push Day" -e "Face Pull @cable 3x15 20kg"

  resume                  Reopen an unfinished workout (time away is counted)
    --no-ui               Print it instead
  status                  Show elapsed time, sets and progress
  pause / unpause         Stop or restart the workout timer
  submit                  Finish and send to your workout log
  discard                 Throw the unfinished workout away

  set done [ex] [set]     Complete a set (defaults to the next open set)
    -r, --reps            Reps performed
    -w, --weight          Weight in kg
  set edit <ex> <set>     Change reps/weight of a set
  set undo <ex> <set>     Reopen a completed set
  set add [ex]            Append a set
  set rm <ex> <set>       Remove a set

  exercise add <spec>     Append an exercise
  exercise rm <ex>        Remove an exercise
  goto <ex>               Move to another exercise
  note <text>             Set workout notes

  Session screen keys:
    ↑/↓ ←/→       Move between sets / exercises
    enter         Complete the selected set
    e             Edit reps and weight
    u             Reopen set
    a / x         Add / remove set
    space         Pause / resume timer
    +             Add 30s to rest
    ctrl+z        Suspend (timer keeps running)
    s             Submit
    q             Leave (timer keeps running)
    D             Discard workout

CATALOG:

  template add <spec>     Add an exercise template
    Smart syntax:
      @equipment    barbell, dumbbell (db), kettlebell (kb), machine, cable, band, bodyweight (bw)
      3x8           Sets x reps
      60kg / 135lb  Target weight
      rest:90s      Rest between sets
    Example:
      wrkout template add "Bench Press @barbell 3x8 60kg rest:90s"
  template ls             List templates
  program add <name> <template...>
                          Save a program
  program ls              List programs

GLOBAL FLAGS:

  --config <file>         Config file (default ~/.wrkout/config.yaml)
  --log-level <level>     debug, info, warn, error
  --storage <driver>      sqlite, redis, memory

Every setting can also come from WRKOUT_* environment variables,
e.g. WRKOUT_API_BASE_URL, WRKOUT_API_TOKEN, WRKOUT_STORAGE_DRIVER.

`)
}
