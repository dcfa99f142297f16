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

// Package pageline holds the per-page matrix of logical lines
// (spec §4.2): a line is a variable-length run of 16-bit code points,
// with the raw CR byte kept in-band as an overprint marker. Lines
// grow geometrically, the same way the rest of this engine's scratch
// buffers are reused across pages.
package pageline

import "github.com/mattn/go-runewidth"

// CR is the overprint marker stored in-band within a line, per
// spec §4.2 and §9 ("overprint marker in wide-char buffer").
const CR uint16 = 0x0D

// Buffer holds the logical lines of the page currently being
// accumulated. Line numbers are 1-based; Lines[i] holds line i+1.
type Buffer struct {
	Lines []Line
}

// Line is one logical line's accumulated text.
type Line struct {
	Text []uint16
}

// New returns an empty line buffer.
func New() *Buffer {
	return &Buffer{}
}

// ensure grows Lines so that line n (1-based) exists.
func (b *Buffer) ensure(n int) {
	for len(b.Lines) < n {
		b.Lines = append(b.Lines, Line{})
	}
}

// Append adds text to the end of logical line n (1-based), growing
// the buffer as needed.
func (b *Buffer) Append(n int, text []uint16) {
	b.ensure(n)
	b.Lines[n-1].Text = append(b.Lines[n-1].Text, text...)
}

// Width reports the line's on-page cell width. The 16-bit code-point
// model assumes single-width cells, but a stray double-width code
// point would silently miscount horizontal position; Width uses
// go-runewidth the way a terminal emulator would, to make that
// mismatch detectable rather than assumed away.
func (l Line) Width() int {
	w := 0
	for _, ch := range l.Text {
		if ch == CR {
			continue
		}
		w += runewidth.RuneWidth(rune(ch))
	}
	return w
}

// Get returns logical line n's text, or nil if it doesn't exist or
// is empty.
func (b *Buffer) Get(n int) []uint16 {
	if n < 1 || n > len(b.Lines) {
		return nil
	}
	return b.Lines[n-1].Text
}

// Len reports how many lines currently exist in the buffer
// (including beyond lpp, for TOF carry-over).
func (b *Buffer) Len() int {
	return len(b.Lines)
}

// ClearLine empties line n's text without shrinking the slice.
func (b *Buffer) ClearLine(n int) {
	if n >= 1 && n <= len(b.Lines) {
		b.Lines[n-1].Text = nil
	}
}

// Reset drops all lines, for a fresh page.
func (b *Buffer) Reset() {
	b.Lines = b.Lines[:0]
}

// TrimAfter drops every line past n (1-based), after CarryTOF has
// moved the carried lines into position 1..n: the rest of the old
// page's content has no place on the new page.
func (b *Buffer) TrimAfter(n int) {
	if n < len(b.Lines) {
		b.Lines = b.Lines[:n]
	}
}

// CarryTOF implements the top-of-form overflow carry (spec §4.4):
// after a page of lpp lines is emitted, any lines that were written
// into positions lpp+1..lpp+tof are swapped into positions 1..tof of
// the new page. It returns tof+1, the line at which writing resumes,
// if any carried line has content, or 0 if nothing was carried.
func (b *Buffer) CarryTOF(lpp, tof int) (carriedLine int) {
	if tof >= b.Len() {
		return 0
	}
	for l := 1; l <= tof; l++ {
		el := lpp + l
		if el > b.Len() {
			break
		}
		b.Lines[l-1], b.Lines[el-1] = b.Lines[el-1], b.Lines[l-1]
		if len(b.Lines[l-1].Text) > 0 {
			carriedLine = tof + 1
		}
	}
	return carriedLine
}
