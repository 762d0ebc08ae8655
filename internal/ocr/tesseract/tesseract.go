// Package tesseract recognizes words through the Tesseract engine. It
// links against libtesseract and leptonica with cgo.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/jackzampolin/pdfsift/internal/ocr"
)

// Engine recognizes words with the gosseract client.
type Engine struct {
	languages      []string
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// New constructs a Tesseract-backed engine. An empty tessdataPrefix keeps
// Tesseract's compiled-in default.
func New(languages []string, tessdataPrefix string) *Engine {
	return &Engine{
		languages:      languages,
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize returns every word Tesseract finds with its confidence.
// A client is created per call; gosseract clients are not safe for
// concurrent use.
func (e *Engine) Recognize(ctx context.Context, img image.Image, dpi int) ([]ocr.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(dpi)); err != nil {
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}

	tokens := make([]ocr.Token, 0, len(boxes))
	for _, b := range boxes {
		tokens = append(tokens, ocr.Token{Text: b.Word, Confidence: b.Confidence})
	}
	return tokens, nil
}

var _ ocr.Engine = (*Engine)(nil)
