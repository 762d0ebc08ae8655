package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/report"
	"github.com/jackzampolin/pdfsift/internal/session"
	"github.com/jackzampolin/pdfsift/internal/svcctx"
)

// ExportRequest is the request body for exporting results.
type ExportRequest struct {
	// Path is the CSV destination. Default: <home>/exports/<run-id>.csv
	Path string `json:"path,omitempty"`
}

// ExportResponse describes a written export.
type ExportResponse struct {
	RunID string `json:"run_id"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// ExportRunEndpoint handles POST /runs/export.
type ExportRunEndpoint struct{}

func (e *ExportRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/runs/export", e.handler
}

func (e *ExportRunEndpoint) RequiresInit() bool { return true }

func (e *ExportRunEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, runID, err := svcctx.SessionFrom(r.Context()).Results()
	if err != nil {
		if errors.Is(err, session.ErrNoRun) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	path := req.Path
	if path == "" {
		h := svcctx.HomeFrom(r.Context())
		if h == nil {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}
		path = h.ExportPath(runID)
	}

	if err := report.ExportCSV(path, results); err != nil {
		var exportErr *report.ExportError
		switch {
		case errors.Is(err, report.ErrNoResults):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &exportErr):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("export failed: %v", err))
		}
		return
	}

	svcctx.LoggerFrom(r.Context()).Info("results exported", "run_id", runID, "path", path, "rows", len(results))
	writeJSON(w, http.StatusOK, ExportResponse{RunID: runID, Path: path, Rows: len(results)})
}

func (e *ExportRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current run's results to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ExportRequest{}
			if path != "" {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				req.Path = abs
			}

			client := api.NewClient(getServerURL())
			var resp ExportResponse
			if err := client.Post(cmd.Context(), "/runs/export", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "CSV destination (default: ~/.pdfsift/exports/<run-id>.csv)")
	return cmd
}
