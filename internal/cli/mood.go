package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/daemon"
	"github.com/moodlift/moodlift/internal/domain"
)

func init() {
	moodCmd.Flags().StringSliceVar(&moodReasons, "reason", nil, "Reason tag (repeatable)")
	rootCmd.AddCommand(moodCmd)
}

var moodReasons []string

var moodCmd = &cobra.Command{
	Use:   "mood <username> <emotion>",
	Short: "Record a mood check-in",
	Args:  cobra.ExactArgs(2),
	RunE:  runMood,
}

func runMood(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.LookupByName(args[0])
	if err != nil {
		return err
	}

	if _, err := d.Recorder.RecordMood(domain.MoodCheckin{
		UserID:  u.ID,
		Emotion: args[1],
		Reasons: moodReasons,
	}); err != nil {
		return err
	}

	fmt.Printf("Noted: %s is feeling %s\n", u.Username, args[1])
	return nil
}
