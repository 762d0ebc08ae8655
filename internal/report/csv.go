// Package report renders extraction results for operators: CSV export,
// a terminal progress bar and structured log lines.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

// ErrNoResults is returned when there is nothing to export.
var ErrNoResults = errors.New("no extracted data to export")

// Header is the first CSV row.
var Header = []string{"File Name", "Pages", "Extracted Characters"}

// ExportError reports a destination that could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// WriteCSV writes one row per result in the order given.
func WriteCSV(w io.Writer, results []extract.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.FileName, strconv.Itoa(r.Pages), strconv.Itoa(r.Characters)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes results to path, creating parent directories.
// The file is written to a temporary sibling first and renamed into place.
func ExportCSV(path string, results []extract.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, results); err != nil {
		tmp.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}
