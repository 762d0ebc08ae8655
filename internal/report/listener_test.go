package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogListener(slog.New(slog.NewTextHandler(&buf, nil)))

	l.OnStart(2)
	l.OnResult(extract.Result{FileName: "a.pdf", Pages: 3, Characters: 10, Method: extract.MethodDigital})
	l.OnResult(extract.Result{FileName: "b.pdf", Method: extract.MethodFailed, Failure: extract.KindOpen, Error: "denied"})
	l.OnStatus(pipeline.StateCompleted, "Completed: 2 PDFs processed.")

	out := buf.String()
	for _, want := range []string{"total=2", "file=a.pdf", "characters=10", "level=WARN", "failure=open", "state=completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.OnStatus(pipeline.StateDispatching, "Processing 2 PDFs...")
	bar.OnProgress(50)
	bar.OnProgress(100)
	bar.OnStatus(pipeline.StateCompleted, "Completed: 2 PDFs processed.")

	if buf.Len() == 0 {
		t.Error("expected the bar to render")
	}
}
