package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <username>",
	Short: "Show a user's training plan for today",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.LookupByName(args[0])
	if err != nil {
		return err
	}

	sched := d.Schedules.Today(u.ID)

	fmt.Printf("%s — day %d, version %s\n\n", sched.Day, sched.DayNumber, sched.Version)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTASK\tQUESTION\tDIFFICULTY")
	for i, step := range sched.Steps {
		difficulty := string(step.Difficulty)
		if difficulty == "" {
			difficulty = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, step.TaskType, step.QuestionIndex, difficulty)
	}
	return w.Flush()
}
