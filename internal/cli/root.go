// Package cli implements the Moodlift command-line interface using
// Cobra. Each subcommand maps to a backend capability (serve, signup,
// schedule, stats, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moodlift",
	Short: "Moodlift — mood-training backend",
	Long: `Moodlift is the backend for the mood-training mini-game app.
It schedules each user's daily exercises, records their results, and
keeps engagement statistics (streaks, reaction times, mood check-ins).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
