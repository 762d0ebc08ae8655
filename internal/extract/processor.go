package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// TextLayer reads a document's embedded text.
type TextLayer interface {
	Extract(ctx context.Context, path string) (pages int, text string, err error)
}

// OCR recognizes text from a document's rasterized pages.
type OCR interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	TextLayer TextLayer
	OCR       OCR
	Logger    *slog.Logger
	// Timeout bounds a single document. Zero disables it.
	Timeout time.Duration
}

// Processor runs the digital-first, OCR-fallback strategy for one document.
// It is safe for concurrent use.
type Processor struct {
	textLayer TextLayer
	ocr       OCR
	timeout   time.Duration
	logger    *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(cfg ProcessorConfig) (*Processor, error) {
	if cfg.TextLayer == nil {
		return nil, errors.New("text layer extractor is required")
	}
	if cfg.OCR == nil {
		return nil, errors.New("OCR extractor is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		textLayer: cfg.TextLayer,
		ocr:       cfg.OCR,
		timeout:   cfg.Timeout,
		logger:    logger.With("component", "processor"),
	}, nil
}

// Process extracts path and never returns an error: failures come back as
// the zero-valued sentinel with the cause attached.
func (p *Processor) Process(ctx context.Context, path string) (result Result) {
	start := time.Now()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result = Failure(path, NewError(KindPanic, path, fmt.Errorf("%v", r)))
		}
		result.Duration = time.Since(start)
		if result.Failed() {
			p.logger.Debug("document failed", "file", result.FileName, "kind", result.Failure, "error", result.Err)
		} else {
			p.logger.Debug("document extracted",
				"file", result.FileName,
				"method", result.Method,
				"pages", result.Pages,
				"characters", result.Characters,
				"duration", result.Duration)
		}
	}()

	pages, text, err := p.textLayer.Extract(ctx, path)
	if err != nil {
		return Failure(path, p.classify(ctx, path, err))
	}
	if strings.TrimSpace(text) != "" {
		return Result{
			Path:       path,
			FileName:   filepath.Base(path),
			Pages:      pages,
			Characters: utf8.RuneCountInString(text),
			Method:     MethodDigital,
		}
	}

	// The fallback decision is per document: any page with a text layer
	// keeps the whole document on the digital path.
	ocrText, err := p.ocr.Extract(ctx, path)
	if err != nil {
		return Failure(path, p.classify(ctx, path, err))
	}

	// Page count stays the document's declared count, not the image count.
	return Result{
		Path:       path,
		FileName:   filepath.Base(path),
		Pages:      pages,
		Characters: utf8.RuneCountInString(ocrText),
		Method:     MethodOCR,
	}
}

// classify attributes context expiry to the deadline rather than to
// whichever stage happened to observe it.
func (p *Processor) classify(ctx context.Context, path string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewError(KindTimeout, path, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewError(KindCancelled, path, err)
	case KindOf(err) != "":
		return err
	default:
		return NewError(KindFormat, path, err)
	}
}
