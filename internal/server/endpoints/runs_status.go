package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/session"
	"github.com/jackzampolin/pdfsift/internal/svcctx"
)

// RunStatusEndpoint handles GET /runs/status.
type RunStatusEndpoint struct{}

func (e *RunStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/runs/status", e.handler
}

func (e *RunStatusEndpoint) RequiresInit() bool { return true }

func (e *RunStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, r, false)
}

func (e *RunStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state and progress of the current run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.Snapshot
			if err := client.Get(cmd.Context(), "/runs/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RunResultsEndpoint handles GET /runs/results.
type RunResultsEndpoint struct{}

func (e *RunResultsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/runs/results", e.handler
}

func (e *RunResultsEndpoint) RequiresInit() bool { return true }

func (e *RunResultsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, r, true)
}

func (e *RunResultsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "List per-file results of the current run in completion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.Snapshot
			if err := client.Get(cmd.Context(), "/runs/results", &resp); err != nil {
				return err
			}
			return api.Output(resp.Results)
		},
	}
}

func writeSnapshot(w http.ResponseWriter, r *http.Request, withResults bool) {
	snap, err := svcctx.SessionFrom(r.Context()).Snapshot(withResults)
	if err != nil {
		if errors.Is(err, session.ErrNoRun) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// WaitCommand polls the run status until the run reaches a terminal state.
func WaitCommand(getServerURL func() string) *cobra.Command {
	var (
		interval time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the current run completes, is cancelled or fails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			client := api.NewClient(getServerURL())
			var snap session.Snapshot
			err := client.Poll(ctx, "/runs/status", &snap, interval, func() bool {
				return snap.State.Terminal()
			})
			if err != nil {
				return fmt.Errorf("waiting for run: %w", err)
			}
			return api.Output(snap)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	return cmd
}
