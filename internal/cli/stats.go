package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a user's engagement statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.LookupByName(args[0])
	if err != nil {
		return err
	}

	snap := d.Statistics.Get(u.ID)

	fmt.Printf("Statistics for %s\n\n", u.Username)
	fmt.Printf("  Activities:     %d\n", snap.TotalActivities)
	fmt.Printf("  Mean reaction:  %d ms\n", snap.MeanReactionMS)
	fmt.Printf("  Streak:         %d (longest %d)\n", snap.CurrentStreak, snap.LongestStreak)

	if len(snap.EmotionCounts) > 0 {
		fmt.Println("\n  Mood check-ins:")
		emotions := make([]string, 0, len(snap.EmotionCounts))
		for e := range snap.EmotionCounts {
			emotions = append(emotions, e)
		}
		sort.Strings(emotions)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range emotions {
			fmt.Fprintf(w, "    %s\t%d\n", e, snap.EmotionCounts[e])
		}
		w.Flush()
	}

	fmt.Println("\n  Last 7 days:")
	days := make([]string, 0, len(snap.WeeklyCompletion))
	for day := range snap.WeeklyCompletion {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		mark := " "
		if snap.WeeklyCompletion[day] {
			mark = "x"
		}
		fmt.Printf("    [%s] %s\n", mark, day)
	}
	return nil
}
