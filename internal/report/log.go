package report

import (
	"log/slog"

	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

// LogListener writes one structured line per result and status change.
type LogListener struct {
	logger *slog.Logger
}

// NewLogListener creates a LogListener; nil selects slog.Default().
func NewLogListener(logger *slog.Logger) *LogListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogListener{logger: logger.With("component", "report")}
}

func (l *LogListener) OnStart(total int) {
	l.logger.Info("documents found", "total", total)
}

func (l *LogListener) OnResult(r extract.Result) {
	if r.Failed() {
		l.logger.Warn("document failed",
			"file", r.FileName,
			"failure", r.Failure,
			"error", r.Error)
		return
	}
	l.logger.Info("document extracted",
		"file", r.FileName,
		"pages", r.Pages,
		"characters", r.Characters,
		"method", r.Method,
		"duration", r.Duration)
}

func (l *LogListener) OnProgress(float64) {}

func (l *LogListener) OnStatus(state pipeline.State, message string) {
	l.logger.Info(message, "state", state)
}

var _ pipeline.Listener = (*LogListener)(nil)
