// Package native wires the production extraction pipeline. It is the only
// package that links the cgo-backed rasterizer and OCR engine.
package native

import (
	"fmt"
	"log/slog"

	"github.com/jackzampolin/pdfsift/internal/config"
	"github.com/jackzampolin/pdfsift/internal/corpus"
	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/ocr"
	"github.com/jackzampolin/pdfsift/internal/ocr/mupdf"
	"github.com/jackzampolin/pdfsift/internal/ocr/tesseract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
	"github.com/jackzampolin/pdfsift/internal/session"
	"github.com/jackzampolin/pdfsift/internal/textlayer"
)

// Build wires the production pipeline from settings: the filesystem
// scanner, the PDF text layer, MuPDF rasterization and Tesseract.
func Build(cfg *config.Config, signal pipeline.Signal, listener pipeline.Listener, logger *slog.Logger) (*pipeline.Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine := tesseract.New(cfg.Extract.Languages, config.ResolveEnvVars(cfg.OCR.TessdataPrefix))
	ocrExtractor, err := ocr.NewExtractor(ocr.Config{
		Rasterizer:    mupdf.New(),
		Engine:        engine,
		DPI:           cfg.Extract.DPI,
		MinConfidence: cfg.Extract.MinConfidence,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR extractor: %w", err)
	}

	processor, err := extract.NewProcessor(extract.ProcessorConfig{
		TextLayer: textlayer.New(logger),
		OCR:       ocrExtractor,
		Logger:    logger,
		Timeout:   cfg.DocumentTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	return pipeline.New(pipeline.Config{
		Scanner:      corpus.NewScanner(cfg.Extract.Extension, logger),
		Processor:    processor,
		Signal:       signal,
		Listener:     listener,
		Logger:       logger,
		Workers:      cfg.Extract.Workers,
		PollInterval: cfg.PollInterval(),
	})
}

var _ session.Factory = Build
