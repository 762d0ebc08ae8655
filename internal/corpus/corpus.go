// Package corpus enumerates the documents a run will process.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the file suffix selected when none is configured.
const DefaultExtension = ".pdf"

// ScanError reports that the corpus root could not be enumerated.
// A run that hits it processes zero documents.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Scanner recursively selects files by extension.
type Scanner struct {
	extension string
	logger    *slog.Logger
}

// NewScanner creates a scanner for the given extension (e.g. ".pdf").
// Matching is case-insensitive.
func NewScanner(extension string, logger *slog.Logger) *Scanner {
	if extension == "" {
		extension = DefaultExtension
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		extension: strings.ToLower(extension),
		logger:    logger.With("component", "corpus"),
	}
}

// Scan walks root and returns every matching regular file in lexical order.
// The result is fully materialized so callers know the total up front.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Root: root, Err: errors.New("not a directory")}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subtrees are skipped, the rest of the corpus still runs
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if s.Matches(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	s.logger.Debug("corpus scanned", "root", root, "documents", len(paths))
	return paths, nil
}

// Matches reports whether name carries the scanner's extension.
func (s *Scanner) Matches(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), s.extension)
}
