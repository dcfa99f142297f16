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

package pdfdoc

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mechiko/lp2pdf/internal/errs"
)

// ProducerMarker identifies files this engine itself produced. Any
// other (or missing) producer in the /Info dictionary aborts an
// append, per spec §4.3.
const ProducerMarker = "LPTPDF Version "

// Existing describes the trailer, xref table and anchor of a file
// being opened for append (spec §3, "Session state for append").
type Existing struct {
	Size      int     // trailer /Size: object count + 1
	RootObj   int     // trailer /Root object number
	InfoObj   int     // trailer /Info object number
	AnchorObj int     // previous session's anchor /Pages, == RootObj-1
	PageCount int      // previous session's page count (anchor's /Count)
	ID        string  // hex digits of the trailer /ID first element, uppercase, no brackets
	Offsets   []int64 // xref offsets, 1-based (Offsets[0] unused)

	// AnchorBodyEnd is the file offset immediately after the anchor
	// object's closing ">>" but before its "endobj". The in-place
	// rewrite (spec §4.3) replaces that ">>" and everything after it
	// with " /Parent XXXXXXXXXX 0 R >>\nendobj\n".
	AnchorBodyEnd int64
}

var (
	reInt      = regexp.MustCompile(`-?\d+`)
	reIDArray  = regexp.MustCompile(`/ID\s*\[\s*<([0-9A-Fa-f]+)>\s*<[0-9A-Fa-f]+>\s*\]`)
	reRoot     = regexp.MustCompile(`/Root\s+(\d+)\s+0\s+R`)
	reInfo     = regexp.MustCompile(`/Info\s+(\d+)\s+0\s+R`)
	reSize     = regexp.MustCompile(`/Size\s+(\d+)`)
	reCount    = regexp.MustCompile(`/Count\s+(\d+)`)
	reType     = regexp.MustCompile(`/Type\s*/Pages\b`)
	reParent   = regexp.MustCompile(`/Parent\b`)
)

// ScanExisting parses an existing file for append mode: it locates
// the final startxref, reads the xref table, parses the trailer, and
// validates the previous anchor /Pages object, per spec §4.3.
func ScanExisting(r io.ReaderAt, size int64) (*Existing, error) {
	startxrefOff, err := findStartxref(r, size)
	if err != nil {
		return nil, err
	}

	sr := io.NewSectionReader(r, startxrefOff, size-startxrefOff)
	br := bufio.NewReader(sr)

	line, _ := br.ReadString('\n')
	if strings.TrimSpace(line) != "xref" {
		return nil, errs.New(errs.NoAppend, "expected xref table at offset %d", startxrefOff)
	}
	sub, _ := br.ReadString('\n')
	m := regexp.MustCompile(`^(\d+)\s+(\d+)`).FindStringSubmatch(strings.TrimSpace(sub))
	if m == nil {
		return nil, errs.New(errs.NoAppend, "malformed xref subsection header")
	}
	first, _ := strconv.Atoi(m[1])
	count, _ := strconv.Atoi(m[2])
	if first != 0 {
		return nil, errs.New(errs.NoAppend, "only a single xref subsection starting at 0 is supported")
	}

	offsets := make([]int64, count)
	for i := 0; i < count; i++ {
		entry, err := br.ReadString('\n')
		if err != nil && entry == "" {
			return nil, errs.New(errs.NoAppend, "truncated xref table")
		}
		fields := strings.Fields(entry)
		if len(fields) < 3 {
			return nil, errs.New(errs.NoAppend, "malformed xref entry %d", i)
		}
		if i == 0 {
			continue // object 0, free head
		}
		off, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, errs.New(errs.NoAppend, "malformed xref offset at entry %d", i)
		}
		offsets[i] = off
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err)
	}
	idx := strings.Index(string(rest), "trailer")
	if idx < 0 {
		return nil, errs.New(errs.NoAppend, "no trailer dictionary found")
	}
	trailerBody := string(rest[idx:])

	ex := &Existing{Offsets: offsets}

	if m := reSize.FindStringSubmatch(trailerBody); m != nil {
		ex.Size, _ = strconv.Atoi(m[1])
	} else {
		return nil, errs.New(errs.NoAppend, "trailer missing /Size")
	}
	if m := reRoot.FindStringSubmatch(trailerBody); m != nil {
		ex.RootObj, _ = strconv.Atoi(m[1])
	} else {
		return nil, errs.New(errs.NoAppend, "trailer missing /Root")
	}
	if m := reInfo.FindStringSubmatch(trailerBody); m != nil {
		ex.InfoObj, _ = strconv.Atoi(m[1])
	} else {
		return nil, errs.New(errs.NoAppend, "trailer missing /Info")
	}
	if m := reIDArray.FindStringSubmatch(trailerBody); m != nil {
		ex.ID = strings.ToUpper(m[1])
	} else {
		return nil, errs.New(errs.NoAppend, "trailer missing /ID")
	}

	ex.AnchorObj = ex.RootObj - 1
	if ex.AnchorObj < 1 || ex.AnchorObj >= len(offsets) {
		return nil, errs.New(errs.NoAppend, "anchor object %d out of range", ex.AnchorObj)
	}

	anchorBody, bodyEnd, err := readObjectBody(r, offsets[ex.AnchorObj], size)
	if err != nil {
		return nil, err
	}
	if !reType.MatchString(anchorBody) {
		return nil, errs.New(errs.NoAppend, "anchor object %d is not /Type /Pages", ex.AnchorObj)
	}
	if reParent.MatchString(anchorBody) {
		return nil, errs.New(errs.NoAppend, "anchor object %d already has a /Parent", ex.AnchorObj)
	}
	if m := reCount.FindStringSubmatch(anchorBody); m != nil {
		ex.PageCount, _ = strconv.Atoi(m[1])
	}
	ex.AnchorBodyEnd = bodyEnd

	if ex.InfoObj < 1 || ex.InfoObj >= len(offsets) {
		return nil, errs.New(errs.NoAppend, "info object %d out of range", ex.InfoObj)
	}
	infoBody, _, err := readObjectBody(r, offsets[ex.InfoObj], size)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(infoBody, ProducerMarker) {
		return nil, errs.New(errs.NotProduced, "file was not produced by this engine")
	}

	return ex, nil
}

// findStartxref scans the file's tail for the final "startxref"
// keyword and returns the xref table offset it names. The original
// engine walks backward counting four newlines from EOF to find this
// same line; searching a bounded tail window for the keyword is the
// equivalent, format-agnostic approach.
func findStartxref(r io.ReaderAt, size int64) (int64, error) {
	const tailWindow = 2048
	n := int64(tailWindow)
	if n > size {
		n = size
	}
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, size-n); err != nil && err != io.EOF {
		return 0, errs.Wrap(errs.IOError, err)
	}
	idx := bytes.LastIndex(buf, []byte("startxref"))
	if idx < 0 {
		return 0, errs.New(errs.NotPDF, "no startxref found")
	}
	rest := string(buf[idx+len("startxref"):])
	m := reInt.FindString(rest)
	if m == "" {
		return 0, errs.New(errs.NotPDF, "startxref has no offset")
	}
	off, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, errs.New(errs.NotPDF, "malformed startxref offset")
	}
	return off, nil
}

// readObjectBody reads the "N 0 obj ... endobj" body at off and
// returns its dictionary text along with the file offset immediately
// before "endobj", where a /Parent back-patch is appended.
func readObjectBody(r io.ReaderAt, off, size int64) (string, int64, error) {
	const maxObj = 1 << 16
	n := maxObj
	if off+int64(n) > size {
		n = int(size - off)
	}
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, off); err != nil && err != io.EOF {
		return "", 0, errs.Wrap(errs.IOError, err)
	}
	s := string(buf)
	end := strings.Index(s, "endobj")
	if end < 0 {
		return "", 0, errs.New(errs.NoAppend, "object at %d has no endobj", off)
	}
	body := s[:end]
	bodyEnd := off + int64(len(strings.TrimRight(body, "\r\n \t")))
	return body, bodyEnd, nil
}
