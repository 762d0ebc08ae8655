package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))
	writeFile(t, filepath.Join(root, "B.PDF"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "nested", "deeper", "c.Pdf"))
	writeFile(t, filepath.Join(root, "nested", "pdf"))
	writeFile(t, filepath.Join(root, "nested", "report.pdf.bak"))

	paths, err := NewScanner(".pdf", nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	expected := []string{
		filepath.Join(root, "B.PDF"),
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "nested", "deeper", "c.Pdf"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("got %d paths %v, want %d", len(paths), paths, len(expected))
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("index %d: got %q, want %q", i, paths[i], expected[i])
		}
	}
}

func TestScanner_ScanEmptyRoot(t *testing.T) {
	paths, err := NewScanner("", nil).Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no documents, got %v", paths)
	}
}

func TestScanner_ScanErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "does-not-exist")
		_, err := NewScanner(".pdf", nil).Scan(root)

		var scanErr *ScanError
		if !errors.As(err, &scanErr) {
			t.Fatalf("expected *ScanError, got %v", err)
		}
		if scanErr.Root != root {
			t.Errorf("expected root %s, got %s", root, scanErr.Root)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped ErrNotExist, got %v", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "single.pdf")
		writeFile(t, file)

		_, err := NewScanner(".pdf", nil).Scan(file)
		var scanErr *ScanError
		if !errors.As(err, &scanErr) {
			t.Fatalf("expected *ScanError, got %v", err)
		}
	})
}

func TestScanner_Matches(t *testing.T) {
	s := NewScanner(".PDF", nil)
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"report.pdfx", false},
		{"pdf", false},
		{"report.tiff", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Matches(tt.name); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
