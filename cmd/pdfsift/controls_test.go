package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/config"
	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatchStdin(t *testing.T) {
	ctrl := pipeline.NewControl()
	watchStdin(strings.NewReader("p\n\nbogus\n"), ctrl, discardLogger())
	if !ctrl.Paused() || ctrl.Cancelled() {
		t.Fatal("expected paused only")
	}

	watchStdin(strings.NewReader("R\nc\n"), ctrl, discardLogger())
	if ctrl.Paused() || !ctrl.Cancelled() {
		t.Error("expected resumed and cancelled")
	}
}

func TestApplyCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"p", true},
		{"pause", true},
		{"r", true},
		{"cancel", true},
		{"", false},
		{"x", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := applyCommand(tt.input, pipeline.NewControl(), discardLogger()); got != tt.want {
				t.Errorf("applyCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, extract.Result{FileName: "a.pdf", Pages: 2, Characters: 36, Method: extract.MethodDigital})
	printResult(&buf, extract.Result{FileName: "b.pdf", Method: extract.MethodFailed, Failure: extract.KindFormat, Error: "bad xref"})

	want := "a.pdf\t2 pages\t36 characters\tdigital\nb.pdf\tfailed (format): bad xref\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.LogCfg{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("unexpected output %q", buf.String())
	}

	if _, err := newLogger(&buf, config.LogCfg{Level: "loud"}); err == nil {
		t.Error("invalid level should be rejected")
	}
	if _, err := newLogger(&buf, config.LogCfg{Level: "info", Format: "xml"}); err == nil {
		t.Error("invalid format should be rejected")
	}
}
