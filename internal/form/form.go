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

// Package form precomputes the fan-fold background graphics (spec
// §4.5): tractor-feed holes, the color band, and the line-number
// rulers, all rendered once per session into a content-stream byte
// string that is prefixed onto every page.
package form

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mechiko/lp2pdf/internal/config"
)

// labelPrinter formats ruler-column digit labels. Line numbers never
// need locale-specific grouping at this size, but golang.org/x/text's
// Printer is the corpus's idiom for any number rendered into
// user-visible text, so ruler labels go through it rather than a bare
// fmt.Sprintf.
var labelPrinter = message.NewPrinter(language.English)

// PT is a typographic point, 1/72 inch; PDF user space is points.
const PT = 72.0

// Hole geometry, inches, per spec §4.5.
const (
	holeDiameter = 0.1575
	holeVSpacing = 0.500
	holeHPos     = 0.236
	holeVOffset  = 0.250
)

// circleK is the cubic-Bezier control-point offset for approximating
// a quarter circle of radius r: k = circleK * r (spec §4.5).
const circleK = 0.551784

// Color row (stroke, fill) for each banded form type, and for the
// hole outline/fill, as RGB fractions. Named per the teacher's own
// RGB_* constant convention.
var (
	rgbHoleLine = rgb{0.4, 0.4, 0.4}
	rgbHoleFill = rgb{1, 1, 1}

	barColors = map[config.FormType]rgb{
		config.FormGreenbar:  {0.71, 0.92, 0.71},
		config.FormBluebar:   {0.71, 0.82, 0.95},
		config.FormGraybar:   {0.85, 0.85, 0.85},
		config.FormYellowbar: {0.98, 0.95, 0.71},
	}
)

type rgb struct{ r, g, b float64 }

func (c rgb) fill() string   { return fmt.Sprintf("%.3f %.3f %.3f rg", c.r, c.g, c.b) }
func (c rgb) stroke() string { return fmt.Sprintf("%.3f %.3f %.3f RG", c.r, c.g, c.b) }

// Background is the precomputed graphics for one session: a content-
// stream fragment prefixed onto every page, plus the geometry the
// page writer needs to center text.
type Background struct {
	Stream []byte

	// TextOriginX is the x position, in points, where the text
	// column begins: the cols/cpi-wide column centered on the sheet
	// (spec §4.4).
	TextOriginX float64
}

// Build renders the complete background once, per spec §4.5. imgW,
// imgH are the pixel dimensions of the JPEG background (ignored
// unless cfg.FormType == FormImage); imageObjName is the XObject
// resource name already bound in /Resources (e.g. "/Form").
func Build(cfg *config.Config, imgW, imgH int, imageObjName string) *Background {
	var b strings.Builder

	textOriginX := (cfg.Wid - float64(cfg.Cols)/cfg.CPI) / 2 * PT

	b.WriteString("q\n")
	writeHoles(&b, cfg)

	switch cfg.FormType {
	case config.FormImage:
		writeImagePlacement(&b, cfg, imgW, imgH, imageObjName)
	default:
		writeBand(&b, cfg)
		if cfg.Lno > 0 {
			writeRulers(&b, cfg)
		}
	}

	b.WriteString("Q\n")

	return &Background{Stream: []byte(b.String()), TextOriginX: textOriginX}
}

// writeHoles draws the tractor-feed hole column along both long
// edges: circles of diameter holeDiameter, centered holeHPos from
// each edge, spaced holeVSpacing apart, with the first and last
// holeVOffset from the short edges (spec §4.5).
func writeHoles(b *strings.Builder, cfg *config.Config) {
	r := holeDiameter / 2 * PT
	wid := cfg.Wid * PT
	length := cfg.Len * PT

	n := int(math.Round((cfg.Len-2*holeVOffset)/holeVSpacing)) + 1
	if n < 1 {
		return
	}

	b.WriteString(rgbHoleLine.stroke())
	b.WriteByte('\n')
	b.WriteString(rgbHoleFill.fill())
	b.WriteByte('\n')

	for i := 0; i < n; i++ {
		y := length - (holeVOffset*PT + float64(i)*holeVSpacing*PT)
		circle(b, holeHPos*PT, y, r)
		circle(b, wid-holeHPos*PT, y, r)
	}
}

// circle emits one filled-and-stroked circle centered at (cx, cy)
// with radius r, as four cubic Bezier quadrants (spec §4.5).
func circle(b *strings.Builder, cx, cy, r float64) {
	k := circleK * r
	fmt.Fprintf(b, "%.2f %.2f m\n", cx+r, cy)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	b.WriteString("b\n")
}

// writeBand draws the outer rounded-rectangle border and the
// alternating colored bars of the greenbar/bluebar/graybar/yellowbar
// forms (spec §4.5).
func writeBand(b *strings.Builder, cfg *config.Config) {
	color, ok := barColors[cfg.FormType]
	if !ok {
		return // FormPlain: no border, no bars
	}

	left := (cfg.Margin + cfg.Lno) * PT
	right := cfg.Wid*PT - left
	top := cfg.Len*PT - cfg.Top*PT
	bottom := cfg.Bot * PT
	radius := cfg.Lno / 2 * PT

	fmt.Fprintf(b, "%.2f w\n0 0 0 RG\n", 0.5)
	roundedRect(b, left, bottom, right-left, top-bottom, radius)
	b.WriteString("S\n")

	nbars := int(math.Round((cfg.Len - cfg.Top - cfg.Bot) / cfg.BarH))
	b.WriteString(color.fill())
	b.WriteByte('\n')
	for i := 0; i < nbars; i += 2 {
		y0 := top - float64(i+1)*cfg.BarH*PT
		h := cfg.BarH * PT
		if y0 < bottom {
			h -= bottom - y0
			y0 = bottom
		}
		if h <= 0 {
			break
		}
		fmt.Fprintf(b, "%.2f %.2f %.2f %.2f re f\n", left, y0, right-left, h)
	}

	if cfg.Lno > 0 {
		fmt.Fprintf(b, "%.2f %.2f m %.2f %.2f l S\n", left+cfg.Lno*PT, bottom, left+cfg.Lno*PT, top)
		fmt.Fprintf(b, "%.2f %.2f m %.2f %.2f l S\n", right-cfg.Lno*PT, bottom, right-cfg.Lno*PT, top)
	}
}

func roundedRect(b *strings.Builder, x, y, w, h, r float64) {
	k := circleK * r
	fmt.Fprintf(b, "%.2f %.2f m\n", x+r, y)
	fmt.Fprintf(b, "%.2f %.2f l\n", x+w-r, y)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	fmt.Fprintf(b, "%.2f %.2f l\n", x+w, y+h-r)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	fmt.Fprintf(b, "%.2f %.2f l\n", x+r, y+h)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	fmt.Fprintf(b, "%.2f %.2f l\n", x, y+r)
	fmt.Fprintf(b, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x, y+r-k, x+r-k, y, x+r, y)
	b.WriteString("h\n")
}

// writeRulers draws the left (6pt, F3, scale 55) and right (8pt, F3,
// scale 65) line-number columns (spec §4.5).
func writeRulers(b *strings.Builder, cfg *config.Config) {
	usable := cfg.Len - cfg.Top - cfg.Bot
	left := cfg.Margin * PT
	right := cfg.Wid*PT - cfg.Margin*PT - cfg.Lno*PT
	top := cfg.Len*PT - cfg.Top*PT

	writeRulerColumn(b, left, top, usable, 6, 6, 55)
	writeRulerColumn(b, right, top, usable, 8, 8, 65)
}

func writeRulerColumn(b *strings.Builder, x, top, usable float64, fontPt float64, header int, scale int) {
	n := int(math.Ceil(usable * float64(header)))
	fmt.Fprintf(b, "BT /F3 %d Tf %d Tz\n", int(fontPt), scale)
	fmt.Fprintf(b, "%.2f %.2f Td (%s) Tj\n", x, top+2, labelPrinter.Sprintf("%d", header))
	step := usable * PT / float64(n)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(b, "%.2f %.2f Td (%s) Tj\n", 0.0, -step, labelPrinter.Sprintf("%d", i))
	}
	b.WriteString("ET\n")
}

// writeImagePlacement scales and centers the JPEG background image
// within the page margins (spec §4.5).
func writeImagePlacement(b *strings.Builder, cfg *config.Config, imgW, imgH int, imageObjName string) {
	if imgW <= 0 || imgH <= 0 {
		return
	}
	availW := (cfg.Wid - 2*cfg.Margin) * PT
	availH := (cfg.Len - cfg.Top - cfg.Bot) * PT

	scale := availW / float64(imgW)
	if s := availH / float64(imgH); s < scale {
		scale = s
	}
	w := float64(imgW) * scale
	h := float64(imgH) * scale
	x := cfg.Margin*PT + (availW-w)/2
	y := cfg.Bot*PT + (availH-h)/2

	fmt.Fprintf(b, "q %.2f 0 0 %.2f %.2f %.2f cm %s Do Q\n", w, h, x, y, imageObjName)
}
