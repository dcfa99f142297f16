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
	"fmt"
	"io"
	"time"

	"github.com/mechiko/lp2pdf/internal/errs"
)

// header is the fixed PDF prologue: the version comment and a
// trailing binary comment that forces conforming readers into
// byte-mode handling (spec §4.3).
const header = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"

// anchorParentWidth is the width of the reserved "/Parent XXXXXXXXXX
// 0 R" back-patch slot (spec §4.3).
const anchorParentWidth = 10

// FontResource names the three font slots every page's /Resources
// dictionary carries (spec §4.4-4.5): the data font /F1, the number
// font /F2, and the ruler font /F3. The rulers draw with /F3 only.
type FontResource struct {
	Name     string // "/F1", "/F2", "/F3"
	BaseFont string
}

// Document drives object allocation and emits the session's part of
// the PDF object graph: content streams as they're produced, and the
// page tree / catalog / info / xref / trailer at close (spec §4.3,
// §4.7). A checkpoint closes its Document and continues in a new one
// opened on the just-closed file.
type Document struct {
	f        io.WriteSeeker
	w        *countingWriter
	Objects  *ObjTable
	Patcher  Patcher
	existing *Existing

	pageContentObjs []int
	imageObj        int // 0 if no image form
}

// NewDocument prepares a Document for a brand-new file positioned at
// the start of the file, or for resuming an existing append-mode
// file (existing non-nil), writing from its current end.
func NewDocument(f io.WriteSeeker, existing *Existing) (*Document, error) {
	d := &Document{f: f, existing: existing}
	if existing == nil {
		d.Objects = NewObjTable()
		d.w = newCountingWriter(f, 0)
		if err := d.w.WriteString(header); err != nil {
			return nil, err
		}
		return d, nil
	}

	// Per spec §4.3, the next new object ID is the previous /Root
	// (the old catalog and info objects are overwritten by new
	// content): keep the imported table only through the preserved
	// anchor, so the first Reserve() after import yields
	// existing.AnchorObj+1 == existing.RootObj.
	d.Objects = NewObjTable()
	d.Objects.Import(existing.Offsets[:existing.AnchorObj+1])
	off, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err)
	}
	d.w = newCountingWriter(f, off)
	return d, nil
}

// Offset reports the current write position, for checkpoint/resume
// bookkeeping (spec §4.6).
func (d *Document) Offset() int64 {
	return d.w.Offset()
}

// SeekTo repositions both the underlying file and the Document's own
// offset counter, used when resuming after a checkpoint.
func (d *Document) SeekTo(off int64) error {
	if _, err := d.f.Seek(off, io.SeekStart); err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	d.w.off = off
	return nil
}

// WritePageContentStream allocates a new object holding one page's
// content stream, preferring the LZW-compressed body when it is
// strictly smaller than raw (spec §4.4, §4.8). It returns the
// allocated object ID.
func (d *Document) WritePageContentStream(raw, lzwEncoded []byte) (int, error) {
	id := d.Objects.Reserve()
	d.Objects.SetOffset(id, d.w.Offset())
	d.pageContentObjs = append(d.pageContentObjs, id)

	body := raw
	extra := ""
	if lzwEncoded != nil && len(lzwEncoded) < len(raw) {
		body = lzwEncoded
		extra = " /Filter /LZWDecode /DecodeParms << /EarlyChange 0 >>"
		extra += fmt.Sprintf(" /DL %d", len(raw))
	}

	if err := d.w.Printf("%d 0 obj\n<< /Length %d%s >>\nstream\n", id, len(body), extra); err != nil {
		return 0, err
	}
	if _, err := d.w.Write(body); err != nil {
		return 0, err
	}
	if err := d.w.WriteString("\nendstream\nendobj\n"); err != nil {
		return 0, err
	}
	return id, nil
}

// WriteImageXObject allocates the single image-form background
// object (spec §4.5), writing the JPEG bytes verbatim as a DCTDecode
// stream.
func (d *Document) WriteImageXObject(width, height int, jpeg []byte) (int, error) {
	id := d.Objects.Reserve()
	d.Objects.SetOffset(id, d.w.Offset())
	d.imageObj = id
	err := d.w.Printf(
		"%d 0 obj\n<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
			"/ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n",
		id, width, height, len(jpeg))
	if err != nil {
		return 0, err
	}
	if _, err := d.w.Write(jpeg); err != nil {
		return 0, err
	}
	if err := d.w.WriteString("\nendstream\nendobj\n"); err != nil {
		return 0, err
	}
	return id, nil
}

// CloseParams bundles everything Close needs beyond what Document
// already tracks across WritePageContentStream calls. Checkpoint
// save/restore (spec §4.6) is the caller's concern: Close itself
// always emits the full closing sequence.
type CloseParams struct {
	Fonts      []FontResource
	Title      string
	CreatedAt  time.Time
	NewID      string // uppercase hex SHA-1 of this session, always present
	DocumentID string // oid per spec §4.7: NewID unless appending, else the preserved original
}

// Close emits the remaining object categories in the order spec
// §4.3 specifies (Kids list, font dictionary, page leaves, anchor,
// catalog, info), then the xref table and trailer (§4.7), back-
// patching the previous session's anchor /Parent slot when
// appending. It does not close the underlying file.
func (d *Document) Close(p CloseParams) error {
	P := len(d.pageContentObjs)

	kidsObj := d.Objects.Reserve()
	d.Objects.SetOffset(kidsObj, d.w.Offset())

	fontObj := d.Objects.Reserve()

	leafObjs := make([]int, P)
	for i := range leafObjs {
		leafObjs[i] = d.Objects.Reserve()
	}

	anchorObj := d.Objects.Reserve()
	catalogObj := d.Objects.Reserve()
	infoObj := d.Objects.Reserve()

	// Kids list /Pages: the session's own page-tree root, parented
	// by the anchor.
	kids := ""
	for _, leaf := range leafObjs {
		kids += fmt.Sprintf("%d 0 R ", leaf)
	}
	d.Objects.SetOffset(kidsObj, d.w.Offset())
	if err := d.w.Printf("%d 0 obj\n<< /Type /Pages /Parent %d 0 R /Count %d /Kids [ %s] >>\nendobj\n",
		kidsObj, anchorObj, P, kids); err != nil {
		return err
	}

	// Font dictionary: every resource font this session's pages
	// reference, by base-14 name only (spec §4.5, no embedding).
	d.Objects.SetOffset(fontObj, d.w.Offset())
	if err := d.writeFontDict(fontObj, p.Fonts); err != nil {
		return err
	}

	resources := fmt.Sprintf("/Resources << /Font %d 0 R /ProcSet [ /PDF /Text", fontObj)
	if d.imageObj != 0 {
		resources += fmt.Sprintf(" /ImageC ] /XObject << /Form %d 0 R >>", d.imageObj)
	} else {
		resources += " ]"
	}
	resources += " >>"

	for i, leaf := range leafObjs {
		d.Objects.SetOffset(leaf, d.w.Offset())
		err := d.w.Printf("%d 0 obj\n<< /Type /Page /Parent %d 0 R %s /Contents %d 0 R >>\nendobj\n",
			leaf, kidsObj, resources, d.pageContentObjs[i])
		if err != nil {
			return err
		}
	}

	// The new anchor's Kids must list the previous anchor alongside
	// this session's own kidsObj, or a top-down Kids walk from /Root
	// never reaches the pages appended in earlier sessions (spec
	// §4.3), matching lpt2pdf.c's "if (pdf->aobj) fprintf(...)" kid-
	// list construction.
	totalCount := P
	anchorKids := ""
	if d.existing != nil {
		totalCount += d.existing.PageCount
		anchorKids = fmt.Sprintf("%d 0 R ", d.existing.AnchorObj)
	}
	anchorKids += fmt.Sprintf("%d 0 R", kidsObj)
	d.Objects.SetOffset(anchorObj, d.w.Offset())
	if err := d.w.Printf("%d 0 obj\n<< /Type /Pages /Count %d /Kids [ %s ] >>\nendobj\n",
		anchorObj, totalCount, anchorKids); err != nil {
		return err
	}

	d.Objects.SetOffset(catalogObj, d.w.Offset())
	err := d.w.Printf(
		"%d 0 obj\n<< /Type /Catalog /Pages %d 0 R /PageLayout /SinglePage "+
			"/ViewerPreferences << /Duplex /DuplexFlipLongEdge /PickTrayByPDFSize true /DisplayDocTitle true >> >>\nendobj\n",
		catalogObj, anchorObj)
	if err != nil {
		return err
	}

	d.Objects.SetOffset(infoObj, d.w.Offset())
	infoBody := FormatInfoBody(p.Title, p.CreatedAt)
	if err := d.w.Printf("%d 0 obj\n%s\nendobj\n", infoObj, infoBody); err != nil {
		return err
	}

	if d.existing != nil {
		// Splice: overwrite the previous anchor's object body in place
		// with its own contents plus a /Parent pointer to our new
		// anchor, per spec §4.3.
		if err := d.patchPreviousAnchor(anchorObj); err != nil {
			return err
		}
	}

	if err := d.Patcher.Flush(d.writeAt); err != nil {
		return err
	}
	if _, err := d.f.Seek(d.w.Offset(), io.SeekStart); err != nil {
		return errs.Wrap(errs.IOError, err)
	}

	if err := d.writeXrefAndTrailer(p, catalogObj, infoObj); err != nil {
		return err
	}

	if t, ok := d.f.(interface{ Truncate(size int64) error }); ok {
		if err := t.Truncate(d.w.Offset()); err != nil {
			return errs.Wrap(errs.IOError, err)
		}
	}
	return nil
}

func (d *Document) writeFontDict(fontObj int, fonts []FontResource) error {
	body := fmt.Sprintf("%d 0 obj\n<< ", fontObj)
	for _, f := range fonts {
		body += fmt.Sprintf("%s << /Type /Font /Subtype /Type1 /BaseFont /%s >> ", f.Name, f.BaseFont)
	}
	body += ">>\nendobj\n"
	return d.w.WriteString(body)
}

// patchPreviousAnchor rewrites the tail of the previous session's
// anchor object as " /Parent <placeholder> 0 R >>\nendobj\n", so the
// /Parent entry lands inside the anchor dictionary, with the ten-digit
// object-number field queued as a deferred fixup (spec §4.3, §9)
// rather than resolved in place, so the Patcher abstraction carries
// every back-patch to one flush point before the trailer is written.
func (d *Document) patchPreviousAnchor(newAnchorObj int) error {
	// AnchorBodyEnd sits just past the dictionary's closing ">>".
	dictClose := d.existing.AnchorBodyEnd - int64(len(">>"))
	slotOffset := dictClose + int64(len(" /Parent "))
	slot := Slot{Offset: slotOffset, Width: anchorParentWidth}

	if _, err := d.f.Seek(dictClose, io.SeekStart); err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	patch := fmt.Sprintf(" /Parent %s 0 R >>\nendobj\n", string(slot.Placeholder()))
	if _, err := d.f.Write([]byte(patch)); err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	d.Patcher.Defer(slot, newAnchorObj)
	return nil
}

func (d *Document) writeAt(off int64, b []byte) error {
	if _, err := d.f.Seek(off, io.SeekStart); err != nil {
		return errs.Wrap(errs.IOError, err)
	}
	_, err := d.f.Write(b)
	return err
}

func (d *Document) writeXrefAndTrailer(p CloseParams, catalogObj, infoObj int) error {
	xrefOff := d.w.Offset()
	n := d.Objects.Len()

	if err := d.w.Printf("xref\n0 %d\n", n+1); err != nil {
		return err
	}
	if err := d.w.WriteString("0000000000 65535 f \n"); err != nil {
		return err
	}
	for id := 1; id <= n; id++ {
		off := d.Objects.Offset(id)
		if off < 0 {
			return errs.New(errs.Bugcheck, "object %d has no recorded offset", id)
		}
		if err := d.w.Printf("%010d %05d n \n", off, 0); err != nil {
			return err
		}
	}

	oid := p.DocumentID
	if oid == "" {
		oid = p.NewID
	}
	if err := d.w.Printf("trailer\n<< /Root %d 0 R /Size %d /Info %d 0 R /ID [<%s> <%s>] >>\nstartxref\n%d\n%%%%EOF\n",
		catalogObj, n+1, infoObj, oid, p.NewID, xrefOff); err != nil {
		return err
	}
	return nil
}
