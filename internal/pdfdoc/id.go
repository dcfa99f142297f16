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
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"strings"
)

// IDHash accumulates the two inputs spec §4.9 feeds into the
// document ID: every raw byte delivered to the input parser, plus
// the exact bytes of the /Info object body written at close. It
// wraps crypto/sha1 the same way the teacher wraps crypto/md5 for
// its own PDF /ID generation (see DESIGN.md); SHA-1 is a black-box
// 160-bit digest per spec §1, not a component this engine designs.
type IDHash struct {
	h hash.Hash
}

// NewIDHash starts a fresh running digest.
func NewIDHash() *IDHash {
	return &IDHash{h: sha1.New()}
}

// Write feeds raw bytes into the running digest. It never returns an
// error; hash.Hash.Write cannot fail.
func (d *IDHash) Write(p []byte) {
	d.h.Write(p)
}

// Sum returns the upper-case hex digest of everything written so far
// without consuming the running state, per spec §4.7 ("40 hex
// digits").
func (d *IDHash) Sum() string {
	sum := d.h.Sum(nil)
	return strings.ToUpper(hex.EncodeToString(sum))
}

// State snapshots the running hash by value, for checkpoint's
// save/restore cycle (spec §4.6, §5): post-checkpoint content must
// not be double-hashed into the restored state.
type State struct {
	snapshot hash.Hash
}

// Snapshot captures d's current state. crypto/sha1's Hash
// implementation supports encoding.BinaryMarshaler, but the cheaper
// and equally correct approach for a same-process checkpoint is to
// clone by marshaling and unmarshaling through that interface.
func (d *IDHash) Snapshot() (State, error) {
	marshaler, ok := d.h.(interface{ MarshalBinary() ([]byte, error) })
	if !ok {
		return State{}, nil
	}
	b, err := marshaler.MarshalBinary()
	if err != nil {
		return State{}, err
	}
	clone := sha1.New()
	if u, ok := clone.(interface{ UnmarshalBinary([]byte) error }); ok {
		if err := u.UnmarshalBinary(b); err != nil {
			return State{}, err
		}
	}
	return State{snapshot: clone}, nil
}

// Restore replaces d's running state with a previously captured
// Snapshot.
func (d *IDHash) Restore(s State) {
	if s.snapshot != nil {
		d.h = s.snapshot
	}
}
