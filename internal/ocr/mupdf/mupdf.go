// Package mupdf renders PDF pages to images with MuPDF through go-fitz.
package mupdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/jackzampolin/pdfsift/internal/ocr"
)

// Rasterizer renders pages with MuPDF.
type Rasterizer struct{}

// New creates a MuPDF-backed rasterizer.
func New() *Rasterizer {
	return &Rasterizer{}
}

// Open loads the document at path.
func (r *Rasterizer) Open(path string) (ocr.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *fitz.Document
}

func (d *document) NumPage() int {
	return d.doc.NumPage()
}

func (d *document) Render(page int, dpi int) (image.Image, error) {
	return d.doc.ImageDPI(page, float64(dpi))
}

func (d *document) Close() error {
	return d.doc.Close()
}

var _ ocr.Rasterizer = (*Rasterizer)(nil)
