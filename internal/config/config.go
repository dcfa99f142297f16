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

// Package config holds the frozen-once-printing-begins session
// configuration and its geometry invariants.
package config

import (
	"github.com/mechiko/lp2pdf/internal/basefont"
	"github.com/mechiko/lp2pdf/internal/errs"
)

// Require selects the output file open policy.
type Require int

const (
	RequireNew Require = iota
	RequireAppend
	RequireReplace
)

// FormType selects the form background.
type FormType int

const (
	FormPlain FormType = iota
	FormGreenbar
	FormBluebar
	FormGraybar
	FormYellowbar
	FormImage
)

var formNames = map[string]FormType{
	"plain":    FormPlain,
	"greenbar": FormGreenbar,
	"bluebar":  FormBluebar,
	"graybar":  FormGraybar,
	"yellowbar": FormYellowbar,
	"image":    FormImage,
}

// String returns the form type's canonical lowercase name.
func (f FormType) String() string {
	for n, v := range formNames {
		if v == f {
			return n
		}
	}
	return "unknown"
}

// ParseFormType looks up a form type by name; ok is false for an
// unrecognized name.
func ParseFormType(name string) (FormType, bool) {
	f, ok := formNames[name]
	return f, ok
}

// FormList enumerates the accepted form type names.
func FormList() []string {
	return []string{"plain", "greenbar", "bluebar", "graybar", "yellowbar", "image"}
}

// Config is the session's frozen-after-first-write configuration
// (spec.md §3). Zero value is not valid; use Defaults().
type Config struct {
	Require  Require
	CPI      float64
	LPI      int
	Cols     int
	Wid      float64
	Len      float64
	Top      float64
	Bot      float64
	Margin   float64
	Lno      float64
	BarH     float64
	TOF      int // 0 means "not yet set explicitly"; resolved at open time
	FormType FormType
	Font     string
	NFont    string
	NBold    string
	Title    string
	FormFile string
}

// Defaults returns the engine's default configuration, matching the
// original driver's SET table defaults (10 cpi, 6 lpi, 132 columns,
// 14.875x11.000in sheet, greenbar form).
func Defaults() Config {
	return Config{
		Require:  RequireNew,
		CPI:      10.0,
		LPI:      6,
		Cols:     132,
		Wid:      14.875,
		Len:      11.000,
		Top:      1.000,
		Bot:      0.500,
		Margin:   0.470,
		Lno:      0.100,
		BarH:     0.500,
		TOF:      0,
		FormType: FormGreenbar,
		Font:     "Courier",
		NFont:    "Times-Roman",
		NBold:    "Times-Bold",
		Title:    "Lineprinter data",
	}
}

// ResolvedTOF returns the configured top-of-form line offset,
// defaulting to top-margin-in-lines when TOF was never explicitly
// set (original engine: "topmargin, 6 lines at 6 lpi, 8 at 8 lpi").
func (c Config) ResolvedTOF() int {
	if c.TOF > 0 {
		return c.TOF
	}
	return int(c.Top * float64(c.LPI))
}

// LPP returns lines per page.
func (c Config) LPP() int {
	return int(c.Len * float64(c.LPI))
}

// Validate checks the consistency invariants of spec.md §3. It is
// run once, at the first print call, before anything is written.
func (c Config) Validate() error {
	if c.LPI != 6 && c.LPI != 8 {
		return errs.New(errs.Inval, "lpi must be 6 or 8, got %d", c.LPI)
	}
	if c.CPI < 1.0 || c.CPI > 20.0 {
		return errs.New(errs.Inval, "cpi must be in [1.0, 20.0], got %v", c.CPI)
	}
	if c.Cols <= 0 {
		return errs.New(errs.Inval, "cols must be positive, got %d", c.Cols)
	}
	if c.Wid < 3 {
		return errs.New(errs.Inval, "wid must be >= 3in, got %v", c.Wid)
	}
	if c.Len < 2 {
		return errs.New(errs.Inval, "len must be >= 2in, got %v", c.Len)
	}
	if c.Top < 0 || c.Bot < 0 {
		return errs.New(errs.Negval, "top/bot margins must be >= 0")
	}
	if c.Margin < 0.350 {
		return errs.New(errs.Inval, "margin must be >= 0.350in, got %v", c.Margin)
	}
	if c.Lno != 0 && c.Lno < 0.1 {
		return errs.New(errs.Inval, "lno must be 0 or >= 0.1in, got %v", c.Lno)
	}
	if c.BarH <= 0 {
		return errs.New(errs.Inval, "barh must be > 0")
	}
	if c.FormType != FormImage && c.BarH < 1.0/float64(c.LPI) {
		return errs.New(errs.InconGeo, "barh %v is less than one line (1/lpi=%v)", c.BarH, 1.0/float64(c.LPI))
	}
	tof := c.ResolvedTOF()
	if tof < 1 || tof > c.LPP() {
		return errs.New(errs.InconGeo, "tof %d out of range [1, %d]", tof, c.LPP())
	}

	if c.Wid-2*(c.Margin+c.Lno) < 3.0 {
		return errs.New(errs.InconGeo, "usable width %v is less than 3in", c.Wid-2*(c.Margin+c.Lno))
	}
	if c.Wid-2*(c.Margin+c.Lno) < float64(c.Cols)/c.CPI {
		return errs.New(errs.InconGeo, "usable width %v is less than cols/cpi %v", c.Wid-2*(c.Margin+c.Lno), float64(c.Cols)/c.CPI)
	}
	if c.Len*float64(c.LPI) < 4 {
		return errs.New(errs.InconGeo, "page has fewer than 4 lines")
	}

	if !basefont.IsCoreFont(c.Font) {
		return errs.New(errs.UnknownFont, "%s", c.Font)
	}
	if !basefont.IsCoreFont(c.NFont) {
		return errs.New(errs.UnknownFont, "%s", c.NFont)
	}
	if !basefont.IsCoreFont(c.NBold) {
		return errs.New(errs.UnknownFont, "%s", c.NBold)
	}
	if c.FormType == FormImage && c.FormFile == "" {
		return errs.New(errs.Inval, "formtype image requires formfile")
	}

	return nil
}
