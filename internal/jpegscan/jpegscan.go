/*
Copyright 2018 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package jpegscan extracts the pixel dimensions of a JPEG image by
// walking its marker segments to the first SOF0-SOF3 frame header
// (spec §4.5), without decoding any image data. The engine embeds
// the JPEG bytes verbatim as a DCTDecode XObject stream; only width
// and height are needed to place it.
package jpegscan

import (
	"encoding/binary"

	"github.com/mechiko/lp2pdf/internal/errs"
)

const (
	markerPrefix = 0xFF
	soi          = 0xD8
	eoi          = 0xD9
	sos          = 0xDA

	sof0 = 0xC0
	sof1 = 0xC1
	sof2 = 0xC2
	sof3 = 0xC3
)

// Dimensions is the pixel width and height recovered from a JPEG's
// start-of-frame marker.
type Dimensions struct {
	Width  int
	Height int
}

// Scan walks data's marker segments and returns the width/height of
// the first SOF0-SOF3 frame header found (baseline, extended
// sequential, progressive or lossless).
// It returns errs.BadJPEG if data is not a well-formed JPEG or
// carries no recognized SOF marker.
func Scan(data []byte) (Dimensions, error) {
	if len(data) < 4 || data[0] != markerPrefix || data[1] != soi {
		return Dimensions{}, errs.New(errs.BadJPEG, "missing SOI marker")
	}

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != markerPrefix {
			return Dimensions{}, errs.New(errs.BadJPEG, "marker sync lost at offset %d", pos)
		}
		marker := data[pos+1]
		pos += 2

		if marker == eoi {
			break
		}
		// Markers with no payload length (RST0-7, and standalone
		// TEM) are not expected before SOF in a conforming file, but
		// skip defensively rather than misreading a length.
		if (marker >= 0xD0 && marker <= 0xD7) || marker == 0x01 {
			continue
		}

		if pos+2 > len(data) {
			return Dimensions{}, errs.New(errs.BadJPEG, "truncated marker segment")
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		if segLen < 2 || pos+segLen > len(data) {
			return Dimensions{}, errs.New(errs.BadJPEG, "invalid marker segment length")
		}

		if isSOF(marker) {
			if segLen < 7 {
				return Dimensions{}, errs.New(errs.BadJPEG, "SOF segment too short")
			}
			height := int(binary.BigEndian.Uint16(data[pos+3 : pos+5]))
			width := int(binary.BigEndian.Uint16(data[pos+5 : pos+7]))
			if width == 0 || height == 0 {
				return Dimensions{}, errs.New(errs.BadJPEG, "zero-size frame")
			}
			return Dimensions{Width: width, Height: height}, nil
		}

		if marker == sos {
			break // entropy-coded data follows; no SOF was found before it
		}

		pos += segLen
	}

	return Dimensions{}, errs.New(errs.BadJPEG, "no SOF0-SOF3 marker found")
}

func isSOF(marker byte) bool {
	switch marker {
	case sof0, sof1, sof2, sof3:
		return true
	}
	return false
}
