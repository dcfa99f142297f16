package basefont_test

import (
	"testing"

	"github.com/mechiko/lp2pdf/internal/basefont"
)

func TestIsCoreFontAcceptsAllFourteen(t *testing.T) {
	for _, name := range basefont.Names() {
		if !basefont.IsCoreFont(name) {
			t.Errorf("expected %q to be recognized as a core font", name)
		}
	}
	if len(basefont.Names()) != 14 {
		t.Fatalf("expected 14 core font names, got %d", len(basefont.Names()))
	}
}

func TestIsCoreFontRejectsUnknownName(t *testing.T) {
	if basefont.IsCoreFont("Arial") {
		t.Fatalf("expected Arial to be rejected, it is not a PDF standard 14 font")
	}
	if basefont.IsCoreFont("") {
		t.Fatalf("expected empty string to be rejected")
	}
}
