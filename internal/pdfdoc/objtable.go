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

// Package pdfdoc assembles the PDF document itself: object allocation
// and the cross-reference table (spec §4.3), the append/checkpoint
// splice protocol (§4.6-4.7), and the reserved-slot back-patch
// abstraction spec §9 asks for in place of the source's cyclic
// forward references.
package pdfdoc

import (
	"fmt"

	"github.com/mechiko/lp2pdf/internal/errs"
)

// ObjTable is the append-only vector of absolute file offsets
// described in spec §3: entry k (1-based) is the byte offset where
// object k's "k 0 obj" header is written. Entry 0 is the conventional
// free-list head and is never assigned a real offset.
type ObjTable struct {
	offsets []int64 // offsets[0] unused
}

// NewObjTable returns a table with the conventional free object 0
// already present.
func NewObjTable() *ObjTable {
	return &ObjTable{offsets: []int64{0}}
}

// Alloc reserves the next sequential object ID and records off as
// its file offset. The table grows geometrically the same way the
// rest of the engine's scratch buffers do.
func (t *ObjTable) Alloc(off int64) int {
	t.offsets = append(t.offsets, off)
	return len(t.offsets) - 1
}

// Reserve allocates the next object ID without yet knowing its
// offset; SetOffset must be called before the xref table is written.
func (t *ObjTable) Reserve() int {
	return t.Alloc(-1)
}

// SetOffset records id's file offset after the fact, for objects
// allocated with Reserve.
func (t *ObjTable) SetOffset(id int, off int64) {
	t.offsets[id] = off
}

// Offset returns object id's recorded file offset.
func (t *ObjTable) Offset(id int) int64 {
	return t.offsets[id]
}

// Len returns the number of allocated objects, excluding the free
// head. The PDF trailer's /Size is Len()+1.
func (t *ObjTable) Len() int {
	return len(t.offsets) - 1
}

// Import seeds the table from a previously parsed append-mode xref,
// so that object IDs already on disk are known without having
// allocated them in this session. offsets must already include
// index 0 for the conventional free head, as ScanExisting's parsed
// table does.
func (t *ObjTable) Import(offsets []int64) {
	t.offsets = offsets
}

// Slot is a reserved, fixed-width region of the file that is written
// once as placeholder bytes and patched later, per spec §9's
// "reserved slot (offset, width, format)" abstraction for resolving
// the cyclic Pages/anchor/Catalog references without forward
// declarations.
type Slot struct {
	Offset int64
	Width  int
}

// Placeholder returns the space-filled bytes to write at Slot
// creation time, reserving Width bytes of file space.
func (s Slot) Placeholder() []byte {
	b := make([]byte, s.Width)
	for i := range b {
		b[i] = ' '
	}
	return b
}

// Format renders an integer value as a zero-padded decimal field
// exactly Width bytes wide, the ten-digit object-number convention
// spec §4.3 describes for the anchor's /Parent back-patch.
func (s Slot) Format(value int) ([]byte, error) {
	f := fmt.Sprintf("%%0%dd", s.Width)
	out := []byte(fmt.Sprintf(f, value))
	if len(out) != s.Width {
		return nil, errs.New(errs.Bugcheck, "value %d does not fit in a %d-digit slot", value, s.Width)
	}
	return out, nil
}

// Patcher defers slot writes until the document is otherwise
// complete, matching spec §9's "deferred-fixups list processed
// before the trailer is written".
type Patcher struct {
	fixups []fixup
}

type fixup struct {
	slot  Slot
	value int
}

// Defer schedules slot to be patched with value once Flush is
// called.
func (p *Patcher) Defer(slot Slot, value int) {
	p.fixups = append(p.fixups, fixup{slot: slot, value: value})
}

// Flush applies every deferred patch via writeAt, in the order they
// were deferred.
func (p *Patcher) Flush(writeAt func(off int64, b []byte) error) error {
	for _, fx := range p.fixups {
		b, err := fx.slot.Format(fx.value)
		if err != nil {
			return err
		}
		if err := writeAt(fx.slot.Offset, b); err != nil {
			return errs.Wrap(errs.IOError, err)
		}
	}
	p.fixups = p.fixups[:0]
	return nil
}
