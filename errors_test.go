package lp2pdf_test

import (
	"os"
	"path/filepath"
	"testing"

	lp2pdf "github.com/mechiko/lp2pdf"
)

func TestFontListAndFormListAreNonEmpty(t *testing.T) {
	if len(lp2pdf.FontList()) != 14 {
		t.Fatalf("expected 14 standard fonts, got %d", len(lp2pdf.FontList()))
	}
	if len(lp2pdf.FormList()) == 0 {
		t.Fatalf("expected a non-empty form type list")
	}
}

func TestFileReportsRegularFileExistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jpg")
	if lp2pdf.File(path) {
		t.Fatalf("expected File to report false for a nonexistent path")
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !lp2pdf.File(path) {
		t.Fatalf("expected File to report true for an existing regular file")
	}
}

func TestStrerrorOnNilIsOK(t *testing.T) {
	if lp2pdf.Strerror(nil) == "" {
		t.Fatalf("expected a non-empty OK message")
	}
}
