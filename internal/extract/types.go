// Package extract turns one document into one Result, choosing between the
// embedded text layer and OCR.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Method records which stage produced a result's text.
type Method string

const (
	MethodDigital Method = "digital"
	MethodOCR     Method = "ocr"
	MethodFailed  Method = "failed"
)

// FailureKind classifies why a document produced the failure sentinel.
type FailureKind string

const (
	KindOpen      FailureKind = "open"
	KindFormat    FailureKind = "format"
	KindRasterize FailureKind = "rasterize"
	KindOCR       FailureKind = "ocr"
	KindTimeout   FailureKind = "timeout"
	KindCancelled FailureKind = "cancelled"
	KindPanic     FailureKind = "panic"
)

// Error is a per-document failure. It never aborts a batch.
type Error struct {
	Kind FailureKind
	Path string
	Err  error
}

// NewError wraps err with a failure kind.
func NewError(kind FailureKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, filepath.Base(e.Path), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" if none.
func KindOf(err error) FailureKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Result is the per-document record. Exactly one is produced for every
// document dispatched; failures report zero pages and zero characters.
type Result struct {
	Path       string        `json:"path" yaml:"path"`
	FileName   string        `json:"file_name" yaml:"file_name"`
	Pages      int           `json:"pages" yaml:"pages"`
	Characters int           `json:"characters" yaml:"characters"`
	Method     Method        `json:"method" yaml:"method"`
	Failure    FailureKind   `json:"failure,omitempty" yaml:"failure,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`

	// Err keeps the typed cause for callers in-process.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the result is the failure sentinel.
func (r Result) Failed() bool {
	return r.Method == MethodFailed
}

// Failure builds the sentinel result for path.
func Failure(path string, err error) Result {
	kind := KindOf(err)
	if kind == "" {
		kind = KindFormat
	}
	return Result{
		Path:     path,
		FileName: filepath.Base(path),
		Method:   MethodFailed,
		Failure:  kind,
		Error:    err.Error(),
		Err:      err,
	}
}
