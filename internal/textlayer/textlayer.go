// Package textlayer reads the embedded digital text of PDF documents.
package textlayer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

// Extractor reads a document's text layer page by page.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "textlayer")}
}

// Extract returns the declared page count and the text of every page that
// has any, each followed by a newline. A document with no text layer
// returns an empty string and no error.
func (e *Extractor) Extract(ctx context.Context, path string) (int, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", extract.NewError(extract.KindOpen, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, "", extract.NewError(extract.KindOpen, path, err)
	}

	return e.extract(ctx, path, f, info.Size())
}

func (e *Extractor) extract(ctx context.Context, path string, f io.ReadSeeker, size int64) (pages int, text string, err error) {
	// The parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, text = 0, ""
			err = extract.NewError(extract.KindFormat, path, fmt.Errorf("parser panic: %v", r))
		}
	}()

	ra, ok := f.(io.ReaderAt)
	if !ok {
		return 0, "", extract.NewError(extract.KindOpen, path, fmt.Errorf("reader does not support random access"))
	}
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return 0, "", extract.NewError(extract.KindFormat, path, err)
	}

	pages = e.declaredPages(path, f, r)

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return 0, "", err
		}
		pageText := e.pageText(path, r, i)
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}

	return pages, b.String(), nil
}

// declaredPages prefers the page tree count pdfcpu reads, falling back to
// the text parser's count when pdfcpu rejects the file.
func (e *Extractor) declaredPages(path string, f io.ReadSeeker, r *pdf.Reader) int {
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		count, err := api.PageCount(f, nil)
		if err == nil {
			return count
		}
		e.logger.Debug("pdfcpu page count failed, using parser count", "file", path, "error", err)
	}
	return r.NumPage()
}

// pageText returns "" for pages that have no content or fail to decode.
func (e *Extractor) pageText(path string, r *pdf.Reader, num int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Debug("page text panic", "file", path, "page", num, "panic", rec)
			text = ""
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		e.logger.Debug("page text failed", "file", path, "page", num, "error", err)
		return ""
	}
	return text
}
