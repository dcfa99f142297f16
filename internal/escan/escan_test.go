package escan_test

import (
	"testing"

	"github.com/mechiko/lp2pdf/internal/escan"
)

func feed(s *escan.Scanner, bytes string) []uint16 {
	for i := 0; i < len(bytes); i++ {
		s.Feed(bytes[i])
	}
	return s.Drain()
}

func str(out []uint16) string {
	r := make([]rune, len(out))
	for i, ch := range out {
		r[i] = rune(ch)
	}
	return string(r)
}

func TestPlainTextPassesThrough(t *testing.T) {
	s := escan.New()
	out := feed(s, "hello\n")
	if got := str(out); got != "hello\n" {
		t.Fatalf("expected plain text and LF to pass through, got %q", got)
	}
}

func TestCRAndFFEmitThemselves(t *testing.T) {
	s := escan.New()
	out := feed(s, "a\rb\fc")
	if got := str(out); got != "a\rb\fc" {
		t.Fatalf("expected CR/FF to emit themselves, got %q", got)
	}
}

func TestC0ControlsOtherThanCRLFFFAreDiscarded(t *testing.T) {
	s := escan.New()
	s.Feed(0x07) // BEL
	s.Feed('x')
	out := s.Drain()
	if got := str(out); got != "x" {
		t.Fatalf("expected BEL to be discarded, got %q", got)
	}
}

func TestEscSequenceIsDiscardedEntirely(t *testing.T) {
	s := escan.New()
	s.Feed(0x1B) // ESC
	s.Feed('(')  // intermediate
	s.Feed('B')  // final, 0x30-0x7E
	s.Feed('x')
	out := s.Drain()
	if got := str(out); got != "x" {
		t.Fatalf("expected ESC sequence to be fully consumed, got %q", got)
	}
}

func TestCSIPnZSetsNewLPI(t *testing.T) {
	s := escan.New()
	s.Feed(0x9B) // CSI
	s.Feed('2')
	s.Feed('z')
	if s.NewLPI != 8 {
		t.Fatalf("expected CSI 2 z to request 8 lpi, got %d", s.NewLPI)
	}
}

func TestCSIDefaultParamSelectsSixLPI(t *testing.T) {
	s := escan.New()
	s.Feed(0x9B)
	s.Feed('z')
	if s.NewLPI != 6 {
		t.Fatalf("expected CSI z (default Pn=1) to request 6 lpi, got %d", s.NewLPI)
	}
}

func TestCSIWithIntermediateIsNotExecuted(t *testing.T) {
	s := escan.New()
	s.Feed(0x9B)
	s.Feed('1')
	s.Feed('$') // intermediate, 0x20-0x2F
	s.Feed('z')
	if s.NewLPI != 0 {
		t.Fatalf("expected CSI with intermediate before final not to set NewLPI, got %d", s.NewLPI)
	}
}

func TestCANAbortsPendingEscapeSequence(t *testing.T) {
	s := escan.New()
	s.Feed(0x1B) // ESC
	s.Feed(0x18) // CAN
	s.Feed('x')
	out := s.Drain()
	if got := str(out); got != "x" {
		t.Fatalf("expected CAN to abort the escape sequence, got %q", got)
	}
}

func TestSevenBitCodeExtensionInEscSeq(t *testing.T) {
	// ESC followed by 0x5B ('[') is the 7-bit form of CSI (0x9B).
	s := escan.New()
	s.Feed(0x1B)
	s.Feed(0x5B)
	s.Feed('2')
	s.Feed('z')
	if s.NewLPI != 8 {
		t.Fatalf("expected ESC [ to be treated as CSI, got NewLPI=%d", s.NewLPI)
	}
}
