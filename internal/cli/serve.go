package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/moodlift/moodlift/internal/api"
	"github.com/moodlift/moodlift/internal/daemon"
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Moodlift API server",
	Long:  `Start the HTTP API server the mobile client talks to.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if v := cmd.Root().Version; v != "" {
		api.Version = v
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}

	// Override config from flags
	if serveHost != "" {
		d.Config.API.Host = serveHost
	}
	if servePort > 0 {
		d.Config.API.Port = servePort
	}

	return d.Serve(context.Background())
}
