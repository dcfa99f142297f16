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

// Command lp2pdf converts lineprinter byte streams into fan-fold-
// styled PDF, streaming from stdin or a named input file into an
// output PDF (spec §6, §7).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	lp2pdf "github.com/mechiko/lp2pdf"
	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/log"
)

var (
	output   string
	require  string
	cpi      float64
	lpi      int
	cols     int
	wid      float64
	length   float64
	top      float64
	bot      float64
	margin   float64
	lno      float64
	barh     float64
	tof      int
	formType string
	font     string
	nfont    string
	nbold    string
	title    string
	formfile string

	verbose, veryVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lp2pdf [input-file]",
	Short: "Convert lineprinter output into fan-fold PDF",
	Long: `lp2pdf converts classic ASCII lineprinter output, including
carriage-return overprint and ESC/CSI vertical-pitch control, into a
PDF that reproduces continuous fan-fold stationery.

With no input file, lp2pdf reads from stdin.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(setupLogging)

	flags := rootCmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output PDF path (required)")
	flags.StringVar(&require, "require", "new", "open policy: new|append|replace")
	flags.Float64Var(&cpi, "cpi", 0, "characters per inch (0 = engine default)")
	flags.IntVar(&lpi, "lpi", 0, "lines per inch, 6 or 8 (0 = engine default)")
	flags.IntVar(&cols, "cols", 0, "columns per line (0 = engine default)")
	flags.Float64Var(&wid, "wid", 0, "sheet width, inches (0 = engine default)")
	flags.Float64Var(&length, "len", 0, "sheet length, inches (0 = engine default)")
	flags.Float64Var(&top, "top", 0, "top margin, inches (0 = engine default)")
	flags.Float64Var(&bot, "bot", 0, "bottom margin, inches (0 = engine default)")
	flags.Float64Var(&margin, "margin", 0, "side margin, inches (0 = engine default)")
	flags.Float64Var(&lno, "lno", -1, "line-number ruler width, inches (-1 = engine default, 0 disables)")
	flags.Float64Var(&barh, "barh", 0, "bar height for banded forms, inches (0 = engine default)")
	flags.IntVar(&tof, "tof", 0, "top-of-form line offset (0 = engine default)")
	flags.StringVar(&formType, "form", "", fmt.Sprintf("form background: %v (\"\" = engine default)", config.FormList()))
	flags.StringVar(&font, "font", "", "data column base font (\"\" = engine default)")
	flags.StringVar(&nfont, "nfont", "", "number base font, bound as /F2 in page resources (\"\" = engine default)")
	flags.StringVar(&nbold, "nbold", "", "line-number ruler base font, both rulers (\"\" = engine default)")
	flags.StringVar(&title, "title", "", "PDF /Title (\"\" = engine default)")
	flags.StringVar(&formfile, "formfile", "", "JPEG background image, required when --form=image")

	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug/info/stats logging")
	flags.BoolVar(&veryVerbose, "vv", false, "enable debug/info/stats logging (trace logging stays off)")
}

func setupLogging() {
	switch {
	case veryVerbose:
		log.SetDefaultLoggers()
		log.SetTraceLogger(nil) // trace stays opt-in even under -vv; no byte-level tracer is wired yet
	case verbose:
		log.SetDefaultDebugLogger()
		log.SetDefaultInfoLogger()
		log.SetDefaultStatsLogger()
	default:
		log.DisableLoggers()
	}
}

func run(cmd *cobra.Command, args []string) error {
	if output == "" {
		return fmt.Errorf("--output is required")
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	s, err := lp2pdf.Open(output)
	if err != nil {
		return err
	}

	if err := applyFlags(s); err != nil {
		s.Close()
		return err
	}

	buf := make([]byte, 64*1024)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if perr := s.Print(buf[:n]); perr != nil {
				s.Close()
				return perr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			s.Close()
			return rerr
		}
	}

	return s.Close()
}

func applyFlags(s *lp2pdf.Session) error {
	sets := map[string]interface{}{"require": require}
	if cpi != 0 {
		sets["cpi"] = cpi
	}
	if lpi != 0 {
		sets["lpi"] = lpi
	}
	if cols != 0 {
		sets["cols"] = cols
	}
	if wid != 0 {
		sets["wid"] = wid
	}
	if length != 0 {
		sets["len"] = length
	}
	if top != 0 {
		sets["top"] = top
	}
	if bot != 0 {
		sets["bot"] = bot
	}
	if margin != 0 {
		sets["margin"] = margin
	}
	if lno >= 0 {
		sets["lno"] = lno
	}
	if barh != 0 {
		sets["barh"] = barh
	}
	if tof != 0 {
		sets["tof"] = tof
	}
	if formType != "" {
		sets["formtype"] = formType
	}
	if font != "" {
		sets["font"] = font
	}
	if nfont != "" {
		sets["nfont"] = nfont
	}
	if nbold != "" {
		sets["nbold"] = nbold
	}
	if title != "" {
		sets["title"] = title
	}
	if formfile != "" {
		sets["formfile"] = formfile
	}

	for key, value := range sets {
		if err := s.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lp2pdf:", err)
		os.Exit(1)
	}
}
