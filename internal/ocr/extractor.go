package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

// Config configures an Extractor.
type Config struct {
	Rasterizer    Rasterizer
	Engine        Engine
	DPI           int // Default 300
	MinConfidence int // Negative selects 70; only strictly greater scores are kept
	Logger        *slog.Logger
}

// Extractor renders every page and concatenates the surviving tokens.
type Extractor struct {
	rasterizer    Rasterizer
	engine        Engine
	dpi           int
	minConfidence int
	logger        *slog.Logger
}

// NewExtractor creates an OCR fallback extractor.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.Rasterizer == nil {
		return nil, errors.New("rasterizer is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("OCR engine is required")
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	minConfidence := cfg.MinConfidence
	if minConfidence < 0 {
		minConfidence = DefaultMinConfidence
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		rasterizer:    cfg.Rasterizer,
		engine:        cfg.Engine,
		dpi:           dpi,
		minConfidence: minConfidence,
		logger:        logger.With("component", "ocr", "engine", cfg.Engine.Name()),
	}, nil
}

// Extract returns the filtered text of every page in order. Any render or
// recognition error fails the whole document; no partial text is returned.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	doc, err := e.rasterizer.Open(path)
	if err != nil {
		return "", extract.NewError(extract.KindRasterize, path, err)
	}
	defer doc.Close()

	var b strings.Builder
	kept, dropped := 0, 0
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		img, err := doc.Render(page, e.dpi)
		if err != nil {
			return "", extract.NewError(extract.KindRasterize, path, fmt.Errorf("page %d: %w", page+1, err))
		}

		tokens, err := e.engine.Recognize(ctx, img, e.dpi)
		if err != nil {
			return "", extract.NewError(extract.KindOCR, path, fmt.Errorf("page %d: %w", page+1, err))
		}

		for _, tok := range tokens {
			if !Keep(tok, e.minConfidence) {
				dropped++
				continue
			}
			kept++
			b.WriteString(tok.Text)
			b.WriteByte(' ')
		}
	}

	e.logger.Debug("ocr complete", "file", path, "pages", doc.NumPage(), "kept", kept, "dropped", dropped)
	return b.String(), nil
}

// Keep reports whether a token survives the confidence filter. Scores are
// truncated to whole numbers first, so 70.9 is treated as 70 and dropped
// under the default threshold.
func Keep(tok Token, minConfidence int) bool {
	if tok.Text == "" {
		return false
	}
	return int(tok.Confidence) > minConfidence
}
