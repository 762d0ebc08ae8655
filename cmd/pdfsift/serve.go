package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/native"
	"github.com/jackzampolin/pdfsift/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pdfsift control server",
	Long: `Start the pdfsift HTTP control server.

The server runs one extraction at a time and exposes it over HTTP:
  - GET  /health        - Basic server health check
  - POST /runs          - Start a run over a directory
  - POST /runs/pause    - Pause, resume or cancel the active run
  - GET  /runs/status   - State and progress of the current run
  - GET  /runs/results  - Per-file results in completion order
  - POST /runs/export   - Write results to CSV

Config file changes are picked up while serving and apply to the next run.
On shutdown (Ctrl+C or SIGTERM) an active run is cancelled.

Examples:
  pdfsift serve                    # Start on the configured port (default 8080)
  pdfsift serve --port 3000        # Start on custom port
  pdfsift serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, mgr, err := loadEnvironment()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfg := mgr.Get()
		logger, err := stderrLogger(cfg)
		if err != nil {
			return err
		}
		if file := mgr.ConfigFile(); file != "" {
			logger.Info("using config file", "file", file)
			mgr.WatchConfig(logger)
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Home:          h,
			Factory:       native.Build,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
