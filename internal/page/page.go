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

// Package page builds one page's content stream: the precomputed
// form background followed by the text object rendering the page's
// logical lines, including carriage-return overprint (spec §4.4).
package page

import (
	"fmt"
	"strings"

	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/pageline"
)

const pt = 72.0

// Build renders one page's full content stream: background graphics
// first (already rendered once per session), then the text object
// for lines 1..clampedLine. The caller clamps the line count to lpp
// before calling (spec §4.4 step 1); Build does not clamp it.
func Build(background []byte, lines *pageline.Buffer, clampedLine int, cfg *config.Config, textOriginX float64) []byte {
	var b strings.Builder
	b.Write(background)

	leading := pt / float64(cfg.LPI)
	originY := cfg.Len*pt + 2

	fmt.Fprintf(&b, "q 0 Tr 0 0 0 rg BT /F1 %.2f Tf 1 0 0 1 %.2f %.2f Tm %.2f TL\n",
		leading, textOriginX, originY, leading)

	for line := 1; line <= clampedLine; line++ {
		b.WriteString("T*")
		text := lines.Get(line)
		if ops := lineOps(text); ops != "" {
			b.WriteByte(' ')
			b.WriteString(ops)
		}
		b.WriteByte('\n')
	}

	b.WriteString("ET\nQ\n")
	return []byte(b.String())
}

// lineOps renders one logical line's text as one or more string
// show operators, restarting at column 0 on each CR overprint marker
// that precedes further visible content (spec §4.2, §4.4).
func lineOps(text []uint16) string {
	if len(text) == 0 {
		return ""
	}

	var parts []string
	seg := make([]uint16, 0, len(text))
	flush := func(restart bool) {
		if restart {
			if !hasVisible(seg) {
				seg = seg[:0]
				return
			}
			parts = append(parts, fmt.Sprintf("0 0 Td (%s)Tj", escape(seg)))
		} else {
			parts = append(parts, fmt.Sprintf("(%s)Tj", escape(seg)))
		}
		seg = seg[:0]
	}

	first := true
	for _, ch := range text {
		if ch == pageline.CR {
			flush(!first)
			first = false
			continue
		}
		seg = append(seg, ch)
	}
	flush(!first)

	return strings.Join(parts, " ")
}

func hasVisible(seg []uint16) bool {
	for _, ch := range seg {
		if ch != ' ' && ch != pageline.CR {
			return true
		}
	}
	return false
}

// escape renders wide-char text as a PDF literal-string body,
// escaping backslash and parentheses (spec §4.4). Code points beyond
// a single byte have no representation in the base-14, non-embedded
// fonts this engine uses, and are replaced with '?'.
func escape(text []uint16) string {
	var b strings.Builder
	for _, ch := range text {
		c := byte('?')
		if ch <= 0xFF {
			c = byte(ch)
		}
		if c == '\\' || c == '(' || c == ')' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
