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

// Package lp2pdf converts ASCII lineprinter output into a PDF that
// reproduces classic fan-fold continuous stationery (spec §1-§2). A
// Session owns the output file, configuration, parser state, line
// buffer, and object table for one open-to-close lifecycle,
// including interleaved checkpoints and append-mode resumption.
package lp2pdf

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/errs"
	"github.com/mechiko/lp2pdf/internal/escan"
	"github.com/mechiko/lp2pdf/internal/form"
	"github.com/mechiko/lp2pdf/internal/jpegscan"
	"github.com/mechiko/lp2pdf/internal/log"
	"github.com/mechiko/lp2pdf/internal/lzw"
	"github.com/mechiko/lp2pdf/internal/page"
	"github.com/mechiko/lp2pdf/internal/pageline"
	"github.com/mechiko/lp2pdf/internal/pdfdoc"
)

// Session is a single long-lived object owning the output file
// handle, configuration, object table, line buffer, precomputed form
// graphics, parser state, and running document-ID digest (spec §3).
type Session struct {
	f    *os.File
	size int64

	cfg    config.Config
	frozen bool // configuration is frozen once printing begins

	scanner            *escan.Scanner
	leadingDiscardOpen bool // true until the leading CR*FF? window closes (spec §4.1)
	pendingLPI         int

	lines *pageline.Buffer
	line  int // current logical line, 1-based; 0 = nothing started yet

	doc          *pdfdoc.Document
	existing     *pdfdoc.Existing
	idHash       *pdfdoc.IDHash
	bg           *form.Background
	pagesWritten int

	err error
}

// Open creates or opens path for read/write without truncation and
// returns a new Session. path must end in ".pdf" (case-insensitive),
// per spec §6.
func Open(path string) (*Session, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, errs.New(errs.BadFilename, "path %q must end in .pdf", path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errs.Wrap(errs.BadHandle, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IOError, err)
	}
	return &Session{
		f:                  f,
		size:               fi.Size(),
		cfg:                config.Defaults(),
		scanner:            escan.New(),
		leadingDiscardOpen: true,
		lines:              pageline.New(),
	}, nil
}

// Set assigns a configuration key (spec §3), failing with errs.Active
// once printing has begun. Value types follow the key's semantic type
// in spec §3's table; a mismatched Go type or unknown key fails with
// errs.BadSet. Range/consistency validation is deferred to the first
// print call (spec §5's cancellation model restores nothing here
// because nothing has been mutated yet on a type-assertion failure).
func (s *Session) Set(key string, value interface{}) error {
	if s.frozen {
		return errs.New(errs.Active, "configuration is frozen, printing has begun")
	}

	switch key {
	case "require":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "require must be a string")
		}
		switch v {
		case "new":
			s.cfg.Require = config.RequireNew
		case "append":
			s.cfg.Require = config.RequireAppend
		case "replace":
			s.cfg.Require = config.RequireReplace
		default:
			return errs.New(errs.BadSet, "unknown require value %q", v)
		}
	case "cpi":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "cpi must be a real number")
		}
		s.cfg.CPI = v
	case "lpi":
		v, ok := asInt(value)
		if !ok {
			return errs.New(errs.BadSet, "lpi must be an integer")
		}
		s.cfg.LPI = v
	case "cols":
		v, ok := asInt(value)
		if !ok {
			return errs.New(errs.BadSet, "cols must be an integer")
		}
		s.cfg.Cols = v
	case "wid":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "wid must be a real number")
		}
		s.cfg.Wid = v
	case "len":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "len must be a real number")
		}
		s.cfg.Len = v
	case "top":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "top must be a real number")
		}
		s.cfg.Top = v
	case "bot":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "bot must be a real number")
		}
		s.cfg.Bot = v
	case "margin":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "margin must be a real number")
		}
		s.cfg.Margin = v
	case "lno":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "lno must be a real number")
		}
		s.cfg.Lno = v
	case "barh":
		v, ok := asFloat(value)
		if !ok {
			return errs.New(errs.BadSet, "barh must be a real number")
		}
		s.cfg.BarH = v
	case "tof":
		v, ok := asInt(value)
		if !ok {
			return errs.New(errs.BadSet, "tof must be an integer")
		}
		s.cfg.TOF = v
	case "formtype":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "formtype must be a string")
		}
		ft, ok := config.ParseFormType(v)
		if !ok {
			return errs.New(errs.UnknownForm, "%s", v)
		}
		s.cfg.FormType = ft
	case "font":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "font must be a string")
		}
		s.cfg.Font = v
	case "nfont":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "nfont must be a string")
		}
		s.cfg.NFont = v
	case "nbold":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "nbold must be a string")
		}
		s.cfg.NBold = v
	case "title":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "title must be a string")
		}
		s.cfg.Title = v
	case "formfile":
		v, ok := value.(string)
		if !ok {
			return errs.New(errs.BadSet, "formfile must be a string")
		}
		s.cfg.FormFile = v
	default:
		return errs.New(errs.BadSet, "unknown configuration key %q", key)
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// freeze validates the configuration and opens the underlying
// pdfdoc.Document the first time it is needed: by print or close.
// Once frozen, Set always fails with errs.Active.
func (s *Session) freeze() error {
	if s.frozen {
		return nil
	}
	if err := s.cfg.Validate(); err != nil {
		s.err = err
		return err
	}

	switch s.cfg.Require {
	case config.RequireNew:
		if s.size > 0 {
			err := errs.New(errs.NotEmpty, "new-mode output file is not empty")
			s.err = err
			return err
		}
	case config.RequireAppend:
		if s.size == 0 {
			err := errs.New(errs.NoAppend, "nothing to append to, file is empty")
			s.err = err
			return err
		}
		existing, err := pdfdoc.ScanExisting(s.f, s.size)
		if err != nil {
			s.err = err
			return err
		}
		s.existing = existing
	case config.RequireReplace:
		if err := s.f.Truncate(0); err != nil {
			err = errs.Wrap(errs.IOError, err)
			s.err = err
			return err
		}
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			err = errs.Wrap(errs.IOError, err)
			s.err = err
			return err
		}
		s.size = 0
		s.existing = nil
	}

	doc, err := pdfdoc.NewDocument(s.f, s.existing)
	if err != nil {
		s.err = err
		return err
	}
	s.doc = doc
	s.idHash = pdfdoc.NewIDHash()

	var imgW, imgH int
	if s.cfg.FormType == config.FormImage {
		data, rerr := os.ReadFile(s.cfg.FormFile)
		if rerr != nil {
			err := errs.Wrap(errs.BadJPEG, rerr)
			s.err = err
			return err
		}
		dim, serr := jpegscan.Scan(data)
		if serr != nil {
			s.err = serr
			return serr
		}
		imgW, imgH = dim.Width, dim.Height
		if _, werr := s.doc.WriteImageXObject(imgW, imgH, data); werr != nil {
			s.err = werr
			return werr
		}
	}
	s.bg = form.Build(&s.cfg, imgW, imgH, "/Form")

	s.frozen = true
	log.Debug.Printf("session frozen: require=%v cpi=%v lpi=%d formtype=%v", s.cfg.Require, s.cfg.CPI, s.cfg.LPI, s.cfg.FormType)
	return nil
}

// Print appends bytes to the session: parses ESC/CSI controls (spec
// §4.1), accumulates lines (spec §4.2), and triggers pagination.
func (s *Session) Print(data []byte) error {
	if s.err != nil {
		return s.err
	}
	if err := s.freeze(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	s.idHash.Write(data)

	for _, b := range data {
		if s.leadingDiscardOpen {
			switch b {
			case 0x0D: // CR: part of the leading run, stripped
				continue
			case 0x0C: // FF: the one permitted trailing FF, stripped
				s.leadingDiscardOpen = false
				continue
			default:
				s.leadingDiscardOpen = false
			}
		}
		s.scanner.Feed(b)
	}

	if nlpi := s.scanner.NewLPI; nlpi != 0 {
		s.pendingLPI = nlpi
		s.scanner.NewLPI = 0
	}

	for _, ch := range s.scanner.Drain() {
		switch ch {
		case 0x0A: // LF
			s.line++
		case 0x0C: // FF
			if s.line == 0 {
				s.line = s.cfg.ResolvedTOF() + 1
			}
			if err := s.emitPage(); err != nil {
				s.err = err
				return err
			}
		default: // plain character or CR overprint marker
			s.ensureLine()
			if s.err != nil {
				return s.err
			}
			s.lines.Append(s.line, []uint16{ch})
		}
	}
	return nil
}

// ensureLine applies the auto-pagination and top-of-form promotion
// rules that must run before a character is stored (spec §4.2).
func (s *Session) ensureLine() {
	lpp := s.cfg.LPP()
	tof := s.cfg.ResolvedTOF()
	if s.line > lpp+tof {
		if err := s.emitPage(); err != nil {
			s.err = err
			return
		}
	}
	if s.line == 0 {
		s.line = tof + 1
	}
}

// emitPage renders and writes the current page (spec §4.4), then
// carries any top-of-form overflow onto the next page (same section,
// "TOF overflow carry").
func (s *Session) emitPage() error {
	lpp := s.cfg.LPP()
	clamped := s.line
	if clamped > lpp {
		clamped = lpp
	}
	if clamped < 0 {
		clamped = 0
	}

	for l := 1; l <= clamped; l++ {
		if text := s.lines.Get(l); text != nil {
			if w := (pageline.Line{Text: text}).Width(); w > s.cfg.Cols {
				log.Debug.Printf("page %d line %d width %d exceeds cols %d", s.pagesWritten+1, l, w, s.cfg.Cols)
			}
		}
	}

	raw := page.Build(s.bg.Stream, s.lines, clamped, &s.cfg, s.bg.TextOriginX)
	encoded := lzw.Encode(raw)
	if _, err := s.doc.WritePageContentStream(raw, encoded); err != nil {
		return err
	}
	s.pagesWritten++

	if s.pendingLPI != 0 {
		s.cfg.LPI = s.pendingLPI
		s.pendingLPI = 0
	}

	tof := s.cfg.ResolvedTOF()
	if carried := s.lines.CarryTOF(lpp, tof); carried > 0 {
		s.line = carried
		s.lines.TrimAfter(tof)
	} else {
		s.line = 0
		s.lines.Reset()
	}
	return nil
}

// Where returns the 1-based logical page and line the session is
// currently positioned at (spec §6).
func (s *Session) Where() (page, line int) {
	return s.pagesWritten + 1, s.line
}

func (s *Session) fontResources() []pdfdoc.FontResource {
	return []pdfdoc.FontResource{
		{Name: "/F1", BaseFont: s.cfg.Font},
		{Name: "/F2", BaseFont: s.cfg.NFont},
		{Name: "/F3", BaseFont: s.cfg.NBold},
	}
}

// closeParams builds the parameters for a close or checkpoint's
// closing sequence, feeding the exact /Info object body bytes into
// the running digest before reading it out, per spec §4.9(b).
func (s *Session) closeParams() pdfdoc.CloseParams {
	now := time.Now()
	infoBody := pdfdoc.FormatInfoBody(s.cfg.Title, now)
	s.idHash.Write([]byte(infoBody))
	nid := s.idHash.Sum()

	oid := ""
	if s.existing != nil {
		oid = s.existing.ID
	}

	return pdfdoc.CloseParams{
		Fonts:      s.fontResources(),
		Title:      s.cfg.Title,
		CreatedAt:  now,
		NewID:      nid,
		DocumentID: oid,
	}
}

// Checkpoint writes enough trailing metadata to make the file a
// valid PDF as of this point, then resumes streaming as a fresh
// append-mode session spliced onto what was just written (spec
// §4.6): the same machinery that splices a later `open(require:
// append)` session in also splices a post-checkpoint session in,
// since both are "resume an existing, validly-closed file."
//
// Checkpointing a session that has never printed anything is a no-op
// and leaves the file untouched, matching the original's PDF_WRITTEN
// gate on pdf_checkpoint.
func (s *Session) Checkpoint() error {
	if s.err != nil {
		return s.err
	}
	if !s.frozen {
		return nil
	}

	if err := s.doc.Close(s.closeParams()); err != nil {
		s.err = err
		return err
	}

	sizeAfter := s.doc.Offset()
	existing, err := pdfdoc.ScanExisting(s.f, sizeAfter)
	if err != nil {
		s.err = err
		return err
	}
	doc2, err := pdfdoc.NewDocument(s.f, existing)
	if err != nil {
		s.err = err
		return err
	}

	s.doc = doc2
	s.existing = existing
	s.idHash = pdfdoc.NewIDHash()
	return nil
}

// Snapshot checkpoints the session, then copies the entire file
// byte-exact to path (spec §6).
func (s *Session) Snapshot(path string) error {
	if err := s.Checkpoint(); err != nil {
		return err
	}
	size := s.size
	if s.doc != nil {
		size = s.doc.Offset()
	}

	dst, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.NewSectionReader(s.f, 0, size)); err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	return nil
}

// Close finalizes the session (spec §4.7): any partial page with
// content is emitted, then the page tree, catalog, info, xref, and
// trailer are written. The underlying file is always closed, even on
// error.
func (s *Session) Close() error {
	defer s.f.Close()

	if s.err != nil {
		return s.err
	}
	if err := s.freeze(); err != nil {
		return err
	}

	if s.line > 0 || s.lines.Len() > 0 {
		if err := s.emitPage(); err != nil {
			s.err = err
			return err
		}
	}

	if err := s.doc.Close(s.closeParams()); err != nil {
		s.err = err
		return err
	}
	return nil
}

// Error returns the session's sticky error, if any (spec §6, §7).
func (s *Session) Error() error {
	return s.err
}

// ClearErr clears the session's sticky error.
func (s *Session) ClearErr() {
	s.err = nil
}

// Perror prints "prefix: message\n" for the session's sticky error to
// stderr, matching the C API's perror shape (spec §6, §7).
func (s *Session) Perror(prefix string) {
	if s.err == nil {
		return
	}
	os.Stderr.WriteString(prefix + ": " + s.err.Error() + "\n")
}
