//go:build unix

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

// watchSignals pauses on SIGUSR1 and resumes on SIGUSR2 until stop is called.
func watchSignals(ctrl *pipeline.Control, logger *slog.Logger) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-ch:
				if sig == syscall.SIGUSR1 {
					applyCommand("pause", ctrl, logger)
				} else {
					applyCommand("resume", ctrl, logger)
				}
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
