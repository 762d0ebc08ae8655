package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running pdfsift server via HTTP.

These commands require a running server (pdfsift serve).
Use --server to specify a custom server URL.

Examples:
  pdfsift api health                  # Check server health
  pdfsift api runs start ./scans      # Start a run
  pdfsift api runs pause              # Pause the active run
  pdfsift api runs wait --timeout 1h  # Block until the run finishes
  pdfsift api runs export             # Write results to ~/.pdfsift/exports`,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Extraction run commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))

	// Runs as subcommand group
	runs := api.NewRegistry()
	for _, ep := range endpoints.RunCommands() {
		runs.Register(ep)
	}
	runsCmd.AddCommand(runs.Commands(getServerURL)...)
	runsCmd.AddCommand(endpoints.WaitCommand(getServerURL))

	apiCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(apiCmd)
}
