package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/session"
	"github.com/jackzampolin/pdfsift/internal/svcctx"
)

// StartRunRequest is the request body for starting a run.
type StartRunRequest struct {
	Root string `json:"root"`
}

// StartRunResponse is returned when a run has been accepted.
type StartRunResponse struct {
	RunID string `json:"run_id"`
	Root  string `json:"root"`
}

// StartRunEndpoint handles POST /runs.
type StartRunEndpoint struct{}

func (e *StartRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/runs", e.handler
}

func (e *StartRunEndpoint) RequiresInit() bool { return true }

func (e *StartRunEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Root == "" {
		writeError(w, http.StatusBadRequest, "root is required")
		return
	}
	info, err := os.Stat(req.Root)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("root is not accessible: %v", err))
		return
	}
	if !info.IsDir() {
		writeError(w, http.StatusBadRequest, "root must be a directory")
		return
	}

	sess := svcctx.SessionFrom(r.Context())
	runID, err := sess.StartRun(r.Context(), req.Root)
	if err != nil {
		if errors.Is(err, session.ErrRunActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to start run: %v", err))
		return
	}

	svcctx.LoggerFrom(r.Context()).Info("run accepted", "run_id", runID, "root", req.Root)
	writeJSON(w, http.StatusAccepted, StartRunResponse{RunID: runID, Root: req.Root})
}

func (e *StartRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <root>",
		Short: "Start extracting every PDF under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp StartRunResponse
			if err := client.Post(cmd.Context(), "/runs", StartRunRequest{Root: root}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
