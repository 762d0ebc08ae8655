package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

func sampleResults() []extract.Result {
	return []extract.Result{
		{FileName: "file1.pdf", Pages: 2, Characters: 36, Method: extract.MethodDigital},
		{FileName: "file2.pdf", Pages: 1, Characters: 12, Method: extract.MethodOCR},
		{FileName: "corrupt, copy.pdf", Method: extract.MethodFailed},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "File Name,Pages,Extracted Characters\n" +
		"file1.pdf,2,36\n" +
		"file2.pdf,1,12\n" +
		"\"corrupt, copy.pdf\",0,0\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSV_NoResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written")
	}
}

func TestExportCSV(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "run.csv")
		if err := ExportCSV(path, sampleResults()); err != nil {
			t.Fatalf("ExportCSV() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("File Name,Pages,Extracted Characters\n")) {
			t.Errorf("missing header: %q", data)
		}
		entries, _ := os.ReadDir(filepath.Dir(path))
		if len(entries) != 1 {
			t.Errorf("temporary file left behind: %v", entries)
		}
		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if perm := info.Mode().Perm(); perm != 0o644 {
				t.Errorf("export mode = %v, want 0644", perm)
			}
		}
	})

	t.Run("no results", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.csv")
		if err := ExportCSV(path, nil); !errors.Is(err, ErrNoResults) {
			t.Errorf("expected ErrNoResults, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("no file should be created")
		}
	})

	t.Run("unwritable destination", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		// Parent is a regular file, so the directory cannot be created
		err := ExportCSV(filepath.Join(blocker, "run.csv"), sampleResults())
		var exportErr *ExportError
		if !errors.As(err, &exportErr) {
			t.Fatalf("expected *ExportError, got %v", err)
		}
	})
}
