// Derived from compress/lzw in order to implement
// Adobe's PDF lzw compression as defined for the LZWDecode filter.
// See https://www.adobe.com/content/dam/acom/en/devnet/pdf/pdfs/PDF32000_2008.pdf
package lzw

import (
	"bytes"
	"math/rand"
	"testing"
)

// decode is a standalone oracle for Encode's output, built the same
// way the encoder's dictionary is (a code->string table), so the
// round-trip test doesn't depend on any third-party LZW decoder
// agreeing on EarlyChange=0 framing.
func decode(t *testing.T, enc []byte) []byte {
	t.Helper()

	type entry struct {
		prefix int
		ch     byte
	}
	var table []entry
	resetTable := func() {
		table = table[:0]
		for i := 0; i < 256; i++ {
			table = append(table, entry{prefix: nullCode, ch: byte(i)})
		}
		table = append(table, entry{}, entry{}) // 256 clear, 257 eod placeholders
	}
	resetTable()
	codeSize := uint(minBits)

	stringFor := func(code int) []byte {
		var rev []byte
		for code != nullCode {
			e := table[code]
			rev = append(rev, e.ch)
			code = e.prefix
		}
		for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
			rev[i], rev[j] = rev[j], rev[i]
		}
		return rev
	}

	var bitBuf uint32
	var nBits uint
	pos := 0
	nextBits := func(n uint) (int, bool) {
		for nBits < n {
			if pos >= len(enc) {
				return 0, false
			}
			bitBuf = (bitBuf << 8) | uint32(enc[pos])
			pos++
			nBits += 8
		}
		nBits -= n
		v := int(bitBuf>>nBits) & ((1 << n) - 1)
		return v, true
	}

	var out []byte
	prev := -1
	for {
		code, ok := nextBits(codeSize)
		if !ok {
			t.Fatalf("decode: ran out of bits before EOD")
		}
		if code == clearCode {
			resetTable()
			codeSize = minBits
			prev = -1
			continue
		}
		if code == eodCode {
			break
		}

		var entryBytes []byte
		if code < len(table) && code <= 255 || (code >= idCodes && code < len(table)) {
			entryBytes = stringFor(code)
		} else if code == len(table) && prev != -1 {
			// KwKwK case: code not yet in table.
			s := stringFor(prev)
			entryBytes = append(append([]byte{}, s...), s[0])
		} else {
			t.Fatalf("decode: bad code %d (table size %d)", code, len(table))
		}

		out = append(out, entryBytes...)

		if prev != -1 {
			table = append(table, entry{prefix: prev, ch: entryBytes[0]})
			if len(table) == (1<<codeSize)-1 && codeSize != maxBits {
				codeSize++
			}
		}
		prev = code
	}
	return out
}

func roundTrip(t *testing.T, data []byte) {
	t.Helper()
	enc := Encode(data)
	got := decode(t, enc)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: in %d bytes, out %d bytes", len(data), len(got))
	}
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil)
}

func TestRoundTripSimple(t *testing.T) {
	roundTrip(t, []byte("Hello, Gopher!"))
}

func TestRoundTripRepeating(t *testing.T) {
	roundTrip(t, bytes.Repeat([]byte("ABCABCABC "), 500))
}

func TestRoundTripForcesDictionaryReset(t *testing.T) {
	// Highly varied data drives the dictionary past 4096 entries,
	// exercising the clear-and-reset path.
	r := rand.New(rand.NewSource(1))
	data := make([]byte, 20000)
	for i := range data {
		data[i] = byte(r.Intn(6))
	}
	roundTrip(t, data)
}

func TestEncodeFallbackWhenNotSmaller(t *testing.T) {
	// Single-byte input: clear(9) + code(9) + eod(9) = 27 bits -> 4 bytes,
	// already larger than the 1-byte input. Verifies the fallback
	// comparison callers must do is meaningful, not that Encode itself
	// refuses to run.
	out := Encode([]byte{0x41})
	if len(out) < len([]byte{0x41}) {
		t.Fatalf("expected encoded output to not shrink a 1-byte input, got %d bytes", len(out))
	}
}

func TestCodeSizeGrowsAfterFillingCode(t *testing.T) {
	// 520 bytes of mostly distinct two-byte pairs assign well over 254
	// new dictionary codes; the 254th new code is 257+254=511 =
	// (1<<9)-1, so code size should grow to 10 right after it is
	// assigned. We only assert the encode/decode round trip holds
	// across that boundary.
	var data []byte
	for i := 0; i < 260; i++ {
		data = append(data, byte(i%256), byte((i*7)%256))
	}
	roundTrip(t, data)
}
