package pdfdoc_test

import (
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mechiko/lp2pdf/internal/pdfdoc"
)

func fonts() []pdfdoc.FontResource {
	return []pdfdoc.FontResource{
		{Name: "/F1", BaseFont: "Courier"},
		{Name: "/F2", BaseFont: "Times-Roman"},
		{Name: "/F3", BaseFont: "Times-Bold"},
	}
}

func mustTempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "lp2pdf-*.pdf")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func readAll(t *testing.T, f *os.File) string {
	t.Helper()
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(b)
}

func TestNewFileCloseProducesValidTrailer(t *testing.T) {
	f := mustTempFile(t)

	doc, err := pdfdoc.NewDocument(f, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if _, err := doc.WritePageContentStream([]byte("BT /F1 12 Tf (Hello) Tj ET"), nil); err != nil {
		t.Fatalf("WritePageContentStream: %v", err)
	}

	err = doc.Close(pdfdoc.CloseParams{
		Fonts:     fonts(),
		Title:     "Lineprinter data",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		NewID:     strings.Repeat("AB", 20),
	})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	content := readAll(t, f)
	if !strings.HasPrefix(content, "%PDF-1.4\n") {
		t.Fatalf("missing PDF header, got %q", content[:20])
	}
	if !strings.Contains(content, "trailer") || !strings.Contains(content, "startxref") || !strings.Contains(content, "%%EOF") {
		t.Fatalf("missing trailer/startxref/EOF markers")
	}
	if !strings.Contains(content, "/Producer (LPTPDF Version 1.0)") {
		t.Fatalf("missing producer marker")
	}
	if m := regexp.MustCompile(`/Count (\d+)`).FindStringSubmatch(content); m == nil || m[1] != "1" {
		t.Fatalf("expected page count 1 in anchor, content: %s", content)
	}
}

func TestAppendSplicesNewAnchor(t *testing.T) {
	f := mustTempFile(t)

	doc, err := pdfdoc.NewDocument(f, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if _, err := doc.WritePageContentStream([]byte("BT ET"), nil); err != nil {
		t.Fatalf("WritePageContentStream: %v", err)
	}
	origID := strings.Repeat("CD", 20)
	if err := doc.Close(pdfdoc.CloseParams{
		Fonts:     fonts(),
		Title:     "t",
		CreatedAt: time.Now(),
		NewID:     origID,
	}); err != nil {
		t.Fatalf("first Close: %v", err)
	}

	fi, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	existing, err := pdfdoc.ScanExisting(f, fi.Size())
	if err != nil {
		t.Fatalf("ScanExisting: %v", err)
	}
	if existing.PageCount != 1 {
		t.Fatalf("expected previous page count 1, got %d", existing.PageCount)
	}
	if existing.ID != origID {
		t.Fatalf("expected ID %s, got %s", origID, existing.ID)
	}

	doc2, err := pdfdoc.NewDocument(f, existing)
	if err != nil {
		t.Fatalf("NewDocument (append): %v", err)
	}
	if _, err := doc2.WritePageContentStream([]byte("BT ET"), nil); err != nil {
		t.Fatalf("WritePageContentStream (append): %v", err)
	}
	newID := strings.Repeat("EF", 20)
	if err := doc2.Close(pdfdoc.CloseParams{
		Fonts:      fonts(),
		Title:      "t",
		CreatedAt:  time.Now(),
		NewID:      newID,
		DocumentID: existing.ID,
	}); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	content := readAll(t, f)
	if !strings.Contains(content, "/ID [<"+origID+"> <"+newID+">]") {
		t.Fatalf("expected /ID to preserve original first element, content: %s", content)
	}
	if m := regexp.MustCompile(`/Count (\d+)`).FindAllStringSubmatch(content, -1); len(m) == 0 || m[len(m)-1][1] != "2" {
		t.Fatalf("expected new anchor /Count 2, content: %s", content)
	}
	if !strings.Contains(content, "/Parent") {
		t.Fatalf("expected previous anchor to carry a /Parent back-reference")
	}
}
