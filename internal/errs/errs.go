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

// Package errs defines the error taxonomy of the lp2pdf session API.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a session-level failure. It mirrors the original
// engine's errno-style dispatch table, re-expressed as a typed enum.
type Kind int

const (
	// OK is not itself returned as an error, it exists so the zero
	// Kind has a name during debugging.
	OK Kind = iota
	BadHandle
	BadFilename
	NotPDF
	NoAppend
	NotProduced
	NotEmpty
	Inval
	Negval
	Active
	InconGeo
	UnknownFont
	UnknownForm
	BadJPEG
	BadSet
	IOError
	OtherIOError
	Bugcheck
	NotOpen
	BadErrno
)

var names = map[Kind]string{
	OK:           "ok",
	BadHandle:    "bad handle",
	BadFilename:  "bad filename",
	NotPDF:       "not a PDF file",
	NoAppend:     "cannot parse existing file for append",
	NotProduced:  "existing file was not produced by this engine",
	NotEmpty:     "new-mode output file is not empty",
	Inval:        "configuration value out of range",
	Negval:       "configuration value must not be negative",
	Active:       "configuration is frozen, printing has begun",
	InconGeo:     "inconsistent page geometry",
	UnknownFont:  "unknown font name",
	UnknownForm:  "unknown form type",
	BadJPEG:      "invalid JPEG background image",
	BadSet:       "invalid configuration key",
	IOError:      "I/O error",
	OtherIOError: "other I/O error",
	Bugcheck:     "internal consistency check failed",
	NotOpen:      "session is not open",
	BadErrno:     "unrecognized error code",
}

// String implements fmt.Stringer, used by strerror table lookups.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("errs.Kind(%d)", int(k))
}

// Error wraps a Kind with context, and optionally a host I/O error
// that triggered it. It satisfies error and supports errors.Is/As
// against both the Kind and the wrapped cause.
type Error struct {
	Kind  Kind
	Cause error
}

func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Cause: errors.Errorf(format, args...)}
}

// Wrap attaches a Kind to a lower-level error (typically an I/O
// failure surfaced as-is per spec).
func Wrap(k Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: k, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target carries the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err, OK for a nil err, or OtherIOError
// if err is not one of ours (e.g. a bare host I/O error that was
// never classified).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return OK
	}
	return OtherIOError
}

// Strerror dispatches a static message for a Kind. For codes that
// are actually host errno values surfaced as-is (not one of the
// Kind constants) the caller should prefer the host's own message;
// Strerror only serves this package's own taxonomy.
func Strerror(k Kind) string {
	return k.String()
}
