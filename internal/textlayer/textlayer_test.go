package textlayer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

func TestExtractor_MissingFile(t *testing.T) {
	e := New(nil)
	_, _, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if kind := extract.KindOf(err); kind != extract.KindOpen {
		t.Errorf("expected open failure, got %q (%v)", kind, err)
	}
}

func TestExtractor_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not a pdf", []byte("this is plain text, not a PDF")},
		{"truncated header", []byte("%PDF-1.7\n1 0 obj\n<<")},
		{"empty file", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corrupt.pdf")
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}

			pages, text, err := New(nil).Extract(context.Background(), path)
			if err == nil {
				t.Fatalf("expected error, got pages=%d text=%q", pages, text)
			}
			if kind := extract.KindOf(err); kind != extract.KindFormat {
				t.Errorf("expected format failure, got %q (%v)", kind, err)
			}
		})
	}
}

func TestExtractor_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.pdf")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := New(nil).Extract(context.Background(), dir); err == nil {
		t.Error("expected error when path is a directory")
	}
}

// writePDF builds a document with one page per entry, each showing its
// string in Helvetica. An empty entry yields a page with no text.
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled once the page objects are numbered
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, text := range pages {
		pageNum := len(objects) + 1
		contentNum := pageNum + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))

		var content string
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentNum),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content)+1, content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractor_TextLayer(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"every page has text", []string{"Hello World", "Second page"}, "Hello World\nSecond page\n"},
		{"no text layer", []string{"", ""}, ""},
		{"blank page skipped", []string{"Only first", ""}, "Only first\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePDF(t, tt.pages...)

			pages, text, err := New(nil).Extract(context.Background(), path)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if pages != len(tt.pages) {
				t.Errorf("pages = %d, want %d", pages, len(tt.pages))
			}
			if text != tt.want {
				t.Errorf("text = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestExtractor_TextLayerCancelled(t *testing.T) {
	path := writePDF(t, "Hello World")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := New(nil).Extract(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() error = %v, want context.Canceled", err)
	}
}
