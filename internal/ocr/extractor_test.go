package ocr

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

type fakeDocument struct {
	pages     int
	renderErr error
	rendered  []int
	dpis      []int
	closed    bool
}

func (d *fakeDocument) NumPage() int { return d.pages }

func (d *fakeDocument) Render(page int, dpi int) (image.Image, error) {
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	d.rendered = append(d.rendered, page)
	d.dpis = append(d.dpis, dpi)
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakeRasterizer struct {
	doc     *fakeDocument
	openErr error
}

func (r *fakeRasterizer) Open(path string) (Document, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return r.doc, nil
}

// fakeEngine returns tokens for each successive page.
type fakeEngine struct {
	pages [][]Token
	err   error
	calls atomic.Int32
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, img image.Image, dpi int) ([]Token, error) {
	n := int(e.calls.Add(1)) - 1
	if e.err != nil {
		return nil, e.err
	}
	if n < len(e.pages) {
		return e.pages[n], nil
	}
	return nil, nil
}

func newTestExtractor(t *testing.T, r Rasterizer, e Engine) *Extractor {
	t.Helper()
	x, err := NewExtractor(Config{Rasterizer: r, Engine: e, DPI: 300, MinConfidence: 70})
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return x
}

func TestExtractor_FiltersLowConfidence(t *testing.T) {
	doc := &fakeDocument{pages: 1}
	engine := &fakeEngine{pages: [][]Token{{
		{Text: "Hello", Confidence: 95},
		{Text: "xyz", Confidence: 40},
		{Text: "World", Confidence: 88},
	}}}
	x := newTestExtractor(t, &fakeRasterizer{doc: doc}, engine)

	text, err := x.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Hello World " {
		t.Errorf("expected %q, got %q", "Hello World ", text)
	}
	if len(text) != 12 {
		t.Errorf("expected 12 characters, got %d", len(text))
	}
	if !doc.closed {
		t.Error("document should be closed")
	}
}

func TestExtractor_OneRecognitionPerPageInOrder(t *testing.T) {
	doc := &fakeDocument{pages: 3}
	engine := &fakeEngine{pages: [][]Token{
		{{Text: "one", Confidence: 90}},
		{{Text: "scribble", Confidence: 12}},
		{{Text: "three", Confidence: 99}, {Text: "end", Confidence: 71}},
	}}
	x := newTestExtractor(t, &fakeRasterizer{doc: doc}, engine)

	text, err := x.Extract(context.Background(), "three.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if engine.calls.Load() != 3 {
		t.Errorf("expected 3 recognitions, got %d", engine.calls.Load())
	}
	if text != "one three end " {
		t.Errorf("unexpected text %q", text)
	}
	for i, p := range doc.rendered {
		if p != i {
			t.Errorf("render %d: got page %d", i, p)
		}
		if doc.dpis[i] != 300 {
			t.Errorf("render %d: got dpi %d, want 300", i, doc.dpis[i])
		}
	}
}

func TestKeep(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want bool
	}{
		{"well above", Token{Text: "a", Confidence: 95}, true},
		{"just above", Token{Text: "a", Confidence: 71}, true},
		{"exactly threshold", Token{Text: "a", Confidence: 70}, false},
		{"fraction truncates to threshold", Token{Text: "a", Confidence: 70.9}, false},
		{"below", Token{Text: "a", Confidence: 40}, false},
		{"layout entry", Token{Text: "a", Confidence: -1}, false},
		{"empty word", Token{Text: "", Confidence: 96}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Keep(tt.tok, 70); got != tt.want {
				t.Errorf("Keep(%+v) = %v, want %v", tt.tok, got, tt.want)
			}
		})
	}
}

func TestExtractor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		r        *fakeRasterizer
		e        *fakeEngine
		wantKind extract.FailureKind
	}{
		{
			name:     "open fails",
			r:        &fakeRasterizer{openErr: errors.New("cannot open")},
			e:        &fakeEngine{},
			wantKind: extract.KindRasterize,
		},
		{
			name:     "render fails",
			r:        &fakeRasterizer{doc: &fakeDocument{pages: 2, renderErr: errors.New("bad page")}},
			e:        &fakeEngine{},
			wantKind: extract.KindRasterize,
		},
		{
			name:     "engine fails",
			r:        &fakeRasterizer{doc: &fakeDocument{pages: 2}},
			e:        &fakeEngine{err: errors.New("tesseract crashed")},
			wantKind: extract.KindOCR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExtractor(t, tt.r, tt.e)
			text, err := x.Extract(context.Background(), "bad.pdf")
			if err == nil {
				t.Fatal("expected error")
			}
			if text != "" {
				t.Errorf("no partial text expected, got %q", text)
			}
			if kind := extract.KindOf(err); kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, kind)
			}
		})
	}
}

func TestExtractor_RespectsCancellation(t *testing.T) {
	doc := &fakeDocument{pages: 5}
	engine := &fakeEngine{}
	x := newTestExtractor(t, &fakeRasterizer{doc: doc}, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := x.Extract(ctx, "slow.pdf"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if engine.calls.Load() != 0 {
		t.Errorf("no pages should be recognized after cancellation, got %d", engine.calls.Load())
	}
}

func TestNewExtractor_Defaults(t *testing.T) {
	x, err := NewExtractor(Config{Rasterizer: &fakeRasterizer{}, Engine: &fakeEngine{}, MinConfidence: -1})
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	if x.dpi != DefaultDPI {
		t.Errorf("expected default dpi %d, got %d", DefaultDPI, x.dpi)
	}
	if x.minConfidence != DefaultMinConfidence {
		t.Errorf("expected default threshold %d, got %d", DefaultMinConfidence, x.minConfidence)
	}

	if _, err := NewExtractor(Config{Engine: &fakeEngine{}}); err == nil {
		t.Error("expected error without rasterizer")
	}
}
