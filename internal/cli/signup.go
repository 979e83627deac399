package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	rootCmd.AddCommand(signupCmd)
}

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignup,
}

func runSignup(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.Accounts.Register(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s\n", u.Username)
	fmt.Printf("  ID:     %s\n", u.ID)
	fmt.Printf("  Cohort: %s\n", u.Cohort)
	return nil
}
