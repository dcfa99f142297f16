package pageline_test

import (
	"testing"

	"github.com/mechiko/lp2pdf/internal/pageline"
)

func str(text []uint16) string {
	r := make([]rune, len(text))
	for i, ch := range text {
		r[i] = rune(ch)
	}
	return string(r)
}

func TestAppendGrowsBufferAndAccumulates(t *testing.T) {
	b := pageline.New()
	b.Append(3, []uint16{'a', 'b'})
	b.Append(3, []uint16{'c'})

	if got := str(b.Get(3)); got != "abc" {
		t.Fatalf("expected line 3 to be %q, got %q", "abc", got)
	}
	if b.Get(1) != nil {
		t.Fatalf("expected untouched line 1 to be nil")
	}
	if b.Len() != 3 {
		t.Fatalf("expected buffer length 3, got %d", b.Len())
	}
}

func TestGetOutOfRangeReturnsNil(t *testing.T) {
	b := pageline.New()
	b.Append(1, []uint16{'x'})

	if b.Get(0) != nil {
		t.Fatalf("expected Get(0) to be nil")
	}
	if b.Get(2) != nil {
		t.Fatalf("expected Get(2) to be nil on a 1-line buffer")
	}
}

func TestClearLineEmptiesWithoutShrinking(t *testing.T) {
	b := pageline.New()
	b.Append(2, []uint16{'x'})
	b.ClearLine(2)

	if b.Get(2) != nil {
		t.Fatalf("expected line 2 to be empty after ClearLine")
	}
	if b.Len() != 2 {
		t.Fatalf("expected ClearLine not to shrink the buffer, len=%d", b.Len())
	}
}

func TestResetDropsAllLines(t *testing.T) {
	b := pageline.New()
	b.Append(1, []uint16{'x'})
	b.Append(2, []uint16{'y'})
	b.Reset()

	if b.Len() != 0 {
		t.Fatalf("expected Reset to empty the buffer, len=%d", b.Len())
	}
}

func TestTrimAfterDropsTrailingLines(t *testing.T) {
	b := pageline.New()
	b.Append(1, []uint16{'a'})
	b.Append(2, []uint16{'b'})
	b.Append(3, []uint16{'c'})
	b.TrimAfter(1)

	if b.Len() != 1 {
		t.Fatalf("expected buffer length 1 after TrimAfter(1), got %d", b.Len())
	}
	if got := str(b.Get(1)); got != "a" {
		t.Fatalf("expected surviving line to be %q, got %q", "a", got)
	}
}

func TestTrimAfterNoOpWhenShorterThanN(t *testing.T) {
	b := pageline.New()
	b.Append(1, []uint16{'a'})
	b.TrimAfter(5)

	if b.Len() != 1 {
		t.Fatalf("expected TrimAfter to be a no-op when n exceeds buffer length, len=%d", b.Len())
	}
}

func TestCarryTOFSwapsOverflowIntoLeadingPositions(t *testing.T) {
	b := pageline.New()
	const lpp, tof = 3, 2
	b.Append(1, []uint16{'1'})
	b.Append(2, []uint16{'2'})
	b.Append(3, []uint16{'3'})
	b.Append(4, []uint16{'4'}) // lpp+1
	b.Append(5, []uint16{'5'}) // lpp+2

	carried := b.CarryTOF(lpp, tof)
	if carried != tof+1 {
		t.Fatalf("expected carried line %d, got %d", tof+1, carried)
	}
	if got := str(b.Get(1)); got != "4" {
		t.Fatalf("expected line 1 to carry overflow line 4's content, got %q", got)
	}
	if got := str(b.Get(2)); got != "5" {
		t.Fatalf("expected line 2 to carry overflow line 5's content, got %q", got)
	}
}

func TestCarryTOFReturnsZeroWhenNothingOverflowed(t *testing.T) {
	b := pageline.New()
	b.Append(1, []uint16{'1'})
	if carried := b.CarryTOF(3, 2); carried != 0 {
		t.Fatalf("expected no carry on a short buffer, got %d", carried)
	}
}

func TestLineWidthCountsDoubleWidthRunesAndSkipsCR(t *testing.T) {
	l := pageline.Line{Text: []uint16{'a', 'b', pageline.CR, 'c'}}
	if w := l.Width(); w != 3 {
		t.Fatalf("expected width 3 (CR excluded), got %d", w)
	}

	wide := pageline.Line{Text: []uint16{0x4E2D}} // CJK, double-width
	if w := wide.Width(); w != 2 {
		t.Fatalf("expected double-width rune to count as 2, got %d", w)
	}
}
