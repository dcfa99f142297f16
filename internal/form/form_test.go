package form_test

import (
	"strings"
	"testing"

	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/form"
)

func TestBuildGreenbarProducesStream(t *testing.T) {
	cfg := config.Defaults()
	bg := form.Build(&cfg, 0, 0, "")
	if len(bg.Stream) == 0 {
		t.Fatalf("expected non-empty background stream")
	}
	if !strings.Contains(string(bg.Stream), " c\n") {
		t.Fatalf("expected hole circles to emit Bezier curve operators")
	}
	if bg.TextOriginX <= 0 {
		t.Fatalf("expected positive text origin, got %v", bg.TextOriginX)
	}
}

func TestBuildPlainHasNoBars(t *testing.T) {
	cfg := config.Defaults()
	cfg.FormType = config.FormPlain
	bg := form.Build(&cfg, 0, 0, "")
	if strings.Contains(string(bg.Stream), " re f\n") {
		t.Fatalf("plain form should not draw colored bars")
	}
}

func TestBuildImagePlacesXObject(t *testing.T) {
	cfg := config.Defaults()
	cfg.FormType = config.FormImage
	cfg.FormFile = "background.jpg"
	bg := form.Build(&cfg, 1000, 800, "/Form")
	if !strings.Contains(string(bg.Stream), "/Form Do") {
		t.Fatalf("expected image form to invoke the XObject, got: %s", bg.Stream)
	}
}

func TestBuildZeroLnoSkipsRulers(t *testing.T) {
	cfg := config.Defaults()
	cfg.Lno = 0
	bg := form.Build(&cfg, 0, 0, "")
	if strings.Contains(string(bg.Stream), "/F3") {
		t.Fatalf("expected no ruler text when lno is 0")
	}
}
