package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	completeCmd.Flags().StringVar(&completeDay, "day", "", "Day to mark (YYYY-MM-DD, default today)")
	completeCmd.Flags().BoolVar(&completeUndo, "undo", false, "Clear the completion marker instead")
	rootCmd.AddCommand(completeCmd)
}

var (
	completeDay  string
	completeUndo bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <username>",
	Short: "Mark a user's training day as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.LookupByName(args[0])
	if err != nil {
		return err
	}

	if err := d.Recorder.SetCompletion(u.ID, completeDay, !completeUndo); err != nil {
		return err
	}

	snap := d.Statistics.Get(u.ID)
	fmt.Printf("Done. Current streak: %d\n", snap.CurrentStreak)
	return nil
}
