package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/session"
	"github.com/jackzampolin/pdfsift/internal/svcctx"
)

// ControlResponse is returned by pause, resume and cancel.
type ControlResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// controlHandler applies an operator action to the active run.
func controlHandler(action func(*session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := svcctx.SessionFrom(r.Context())
		if err := action(sess); err != nil {
			if errors.Is(err, session.ErrNoRun) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		snap, err := sess.Snapshot(false)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ControlResponse{RunID: snap.RunID, Status: snap.Status})
	}
}

func controlCommand(use, short, path string, getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ControlResponse
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PauseRunEndpoint handles POST /runs/pause.
type PauseRunEndpoint struct{}

func (e *PauseRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/runs/pause", controlHandler((*session.Session).Pause)
}

func (e *PauseRunEndpoint) RequiresInit() bool { return true }

func (e *PauseRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	return controlCommand("pause", "Pause progress reporting of the active run", "/runs/pause", getServerURL)
}

// ResumeRunEndpoint handles POST /runs/resume.
type ResumeRunEndpoint struct{}

func (e *ResumeRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/runs/resume", controlHandler((*session.Session).Resume)
}

func (e *ResumeRunEndpoint) RequiresInit() bool { return true }

func (e *ResumeRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	return controlCommand("resume", "Resume a paused run", "/runs/resume", getServerURL)
}

// CancelRunEndpoint handles POST /runs/cancel.
type CancelRunEndpoint struct{}

func (e *CancelRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/runs/cancel", controlHandler((*session.Session).Cancel)
}

func (e *CancelRunEndpoint) RequiresInit() bool { return true }

func (e *CancelRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	return controlCommand("cancel", "Cancel the active run", "/runs/cancel", getServerURL)
}
