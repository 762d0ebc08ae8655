package extract

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeTextLayer returns canned text-layer output.
type fakeTextLayer struct {
	pages int
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeTextLayer) Extract(ctx context.Context, path string) (int, string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, "", ctx.Err()
		}
	}
	return f.pages, f.text, f.err
}

// fakeOCR returns canned OCR output and counts invocations.
type fakeOCR struct {
	text  string
	err   error
	panic bool
	calls atomic.Int32
}

func (f *fakeOCR) Extract(ctx context.Context, path string) (string, error) {
	f.calls.Add(1)
	if f.panic {
		panic("engine crashed")
	}
	return f.text, f.err
}

func newTestProcessor(t *testing.T, tl TextLayer, ocr OCR, timeout time.Duration) *Processor {
	t.Helper()
	p, err := NewProcessor(ProcessorConfig{TextLayer: tl, OCR: ocr, Timeout: timeout})
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	return p
}

func TestProcessor_DigitalTextSkipsOCR(t *testing.T) {
	text := "first page\nsecond page\n"
	tl := &fakeTextLayer{pages: 2, text: text}
	ocr := &fakeOCR{text: "should not be used "}
	p := newTestProcessor(t, tl, ocr, 0)

	result := p.Process(context.Background(), "/corpus/sub/file1.pdf")

	if ocr.calls.Load() != 0 {
		t.Errorf("OCR invoked %d times for a digital document", ocr.calls.Load())
	}
	if result.FileName != "file1.pdf" {
		t.Errorf("expected basename file1.pdf, got %s", result.FileName)
	}
	if result.Path != "/corpus/sub/file1.pdf" {
		t.Errorf("expected full path retained, got %s", result.Path)
	}
	if result.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", result.Pages)
	}
	if result.Characters != len(text) {
		t.Errorf("expected %d characters, got %d", len(text), result.Characters)
	}
	if result.Method != MethodDigital {
		t.Errorf("expected digital method, got %s", result.Method)
	}
}

func TestProcessor_WhitespaceTextFallsBackToOCR(t *testing.T) {
	tl := &fakeTextLayer{pages: 1, text: " \n\t\n"}
	ocr := &fakeOCR{text: "Hello World "}
	p := newTestProcessor(t, tl, ocr, 0)

	result := p.Process(context.Background(), "scan.pdf")

	if ocr.calls.Load() != 1 {
		t.Fatalf("expected exactly one OCR call, got %d", ocr.calls.Load())
	}
	if result.Method != MethodOCR {
		t.Errorf("expected ocr method, got %s", result.Method)
	}
	if result.Pages != 1 {
		t.Errorf("page count must come from the text layer pass, got %d", result.Pages)
	}
	if result.Characters != len("Hello World ") {
		t.Errorf("expected %d characters, got %d", len("Hello World "), result.Characters)
	}
}

func TestProcessor_CountsRunesNotBytes(t *testing.T) {
	tl := &fakeTextLayer{pages: 1, text: "Größe café\n"}
	p := newTestProcessor(t, tl, &fakeOCR{}, 0)

	result := p.Process(context.Background(), "umlaut.pdf")
	if result.Characters != 11 {
		t.Errorf("expected 11 characters, got %d", result.Characters)
	}
}

func TestProcessor_FailureSentinel(t *testing.T) {
	tests := []struct {
		name     string
		tl       *fakeTextLayer
		ocr      *fakeOCR
		wantKind FailureKind
	}{
		{
			name:     "corrupt document",
			tl:       &fakeTextLayer{err: NewError(KindFormat, "bad.pdf", errors.New("malformed xref"))},
			ocr:      &fakeOCR{},
			wantKind: KindFormat,
		},
		{
			name:     "unreadable document",
			tl:       &fakeTextLayer{err: NewError(KindOpen, "bad.pdf", errors.New("permission denied"))},
			ocr:      &fakeOCR{},
			wantKind: KindOpen,
		},
		{
			name:     "untyped error defaults to format",
			tl:       &fakeTextLayer{err: errors.New("boom")},
			ocr:      &fakeOCR{},
			wantKind: KindFormat,
		},
		{
			name:     "ocr failure discards partial text",
			tl:       &fakeTextLayer{pages: 3},
			ocr:      &fakeOCR{text: "partial ", err: NewError(KindOCR, "bad.pdf", errors.New("engine error"))},
			wantKind: KindOCR,
		},
		{
			name:     "panic is recovered",
			tl:       &fakeTextLayer{pages: 1},
			ocr:      &fakeOCR{panic: true},
			wantKind: KindPanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t, tt.tl, tt.ocr, 0)
			result := p.Process(context.Background(), "/in/bad.pdf")

			if !result.Failed() {
				t.Fatalf("expected failure, got %+v", result)
			}
			if result.FileName != "bad.pdf" || result.Pages != 0 || result.Characters != 0 {
				t.Errorf("expected sentinel (bad.pdf, 0, 0), got (%s, %d, %d)", result.FileName, result.Pages, result.Characters)
			}
			if result.Failure != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, result.Failure)
			}
			if KindOf(result.Err) != tt.wantKind {
				t.Errorf("typed cause lost: %v", result.Err)
			}
		})
	}
}

func TestProcessor_Timeout(t *testing.T) {
	tl := &fakeTextLayer{pages: 1, text: "late", delay: time.Second}
	p := newTestProcessor(t, tl, &fakeOCR{}, 20*time.Millisecond)

	result := p.Process(context.Background(), "slow.pdf")
	if result.Failure != KindTimeout {
		t.Errorf("expected timeout failure, got %+v", result)
	}
}

func TestNewProcessor_RequiresExtractors(t *testing.T) {
	if _, err := NewProcessor(ProcessorConfig{OCR: &fakeOCR{}}); err == nil {
		t.Error("expected error without text layer")
	}
	if _, err := NewProcessor(ProcessorConfig{TextLayer: &fakeTextLayer{}}); err == nil {
		t.Error("expected error without OCR")
	}
}
