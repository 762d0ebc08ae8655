package main

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

// watchStdin maps operator keystrokes (p, r, c followed by Enter) onto
// the run's control flags. It returns when in reaches EOF.
func watchStdin(in io.Reader, ctrl *pipeline.Control, logger *slog.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		applyCommand(strings.TrimSpace(scanner.Text()), ctrl, logger)
	}
}

func applyCommand(input string, ctrl *pipeline.Control, logger *slog.Logger) bool {
	switch strings.ToLower(input) {
	case "p", "pause":
		ctrl.Pause()
		logger.Info("Paused...")
	case "r", "resume":
		ctrl.Resume()
		logger.Info("Resuming...")
	case "c", "cancel":
		ctrl.Cancel()
		logger.Info("Stopping...")
	case "":
		return false
	default:
		logger.Warn("unknown command, use p, r or c", "input", input)
		return false
	}
	return true
}
