package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/app/coach"
	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	coachCmd.Flags().StringVar(&coachType, "type", string(coach.MsgEncouragement), "Message type (daily_summary, encouragement, mood_reflection, streak_cheer)")
	rootCmd.AddCommand(coachCmd)
}

var coachType string

var coachCmd = &cobra.Command{
	Use:   "coach <username>",
	Short: "Get a coaching message for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoach,
}

func runCoach(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.LookupByName(args[0])
	if err != nil {
		return err
	}

	msg := d.Coach.Message(context.Background(), coach.Context{
		Snapshot: d.Statistics.Get(u.ID),
	}, coach.MessageType(coachType))

	fmt.Println(msg)
	return nil
}
