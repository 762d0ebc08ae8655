//go:build !unix

package main

import (
	"log/slog"

	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

// watchSignals is a no-op where SIGUSR1 and SIGUSR2 do not exist.
func watchSignals(*pipeline.Control, *slog.Logger) (stop func()) {
	return func() {}
}
