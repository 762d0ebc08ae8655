// Package ocr recovers text from documents without a text layer by
// rasterizing each page and keeping only confidently recognized words.
package ocr

import (
	"context"
	"image"
)

const (
	// DefaultDPI balances recognition accuracy against render time.
	DefaultDPI = 300

	// DefaultMinConfidence drops tokens at or below this score. Handwriting
	// and noise usually score low; machine print usually scores high.
	DefaultMinConfidence = 70
)

// Token is one recognized word with the engine's 0-100 confidence.
type Token struct {
	Text       string
	Confidence float64
}

// Engine recognizes words in a page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, dpi int) ([]Token, error)
}

// Rasterizer opens documents for page rendering.
type Rasterizer interface {
	Open(path string) (Document, error)
}

// Document renders individual pages. Page indices are zero-based.
type Document interface {
	NumPage() int
	Render(page int, dpi int) (image.Image, error)
	Close() error
}
