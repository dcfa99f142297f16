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
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/mechiko/lp2pdf/internal/errs"
)

// countingWriter tracks the absolute byte offset written so far, so
// that object offsets can be recorded without a Seek/Tell round trip
// on every write.
type countingWriter struct {
	w   io.Writer
	off int64
}

func newCountingWriter(w io.Writer, startOff int64) *countingWriter {
	return &countingWriter{w: w, off: startOff}
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.off += int64(n)
	if err != nil {
		return n, errs.Wrap(errs.IOError, err)
	}
	return n, nil
}

func (c *countingWriter) WriteString(s string) error {
	_, err := c.Write([]byte(s))
	return err
}

func (c *countingWriter) Printf(format string, args ...interface{}) error {
	return c.WriteString(fmt.Sprintf(format, args...))
}

func (c *countingWriter) Offset() int64 {
	return c.off
}

// escapeLiteral applies the PDF literal-string escapes for the /Info
// title: a backslash before each backslash or parenthesis (spec
// §4.4). No other byte is escaped. Page text is escaped separately by
// the page writer.
func escapeLiteral(s string) string {
	var b bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '(' || c == ')' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// pdfDate renders t in PDF's "D:YYYYMMDDHHmmSSOHH'mm'" date format.
func pdfDate(t time.Time) string {
	_, tz := t.Zone()
	tzm := tz / 60
	sign := "+"
	if tzm < 0 {
		sign = "-"
		tzm = -tzm
	}
	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02d%s%02d'%02d'",
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		sign, tzm/60, tzm%60)
}

// FormatInfoBody renders the exact bytes of the /Info object's
// dictionary body that Close will write. The caller needs these
// bytes before Close runs, to feed them into the running document-ID
// digest per spec §4.9(b) ("the exact bytes of the /Info object body
// that will be written").
func FormatInfoBody(title string, createdAt time.Time) string {
	return fmt.Sprintf("<< /Title (%s) /Producer (%s1.0) /CreationDate (%s) >>",
		escapeLiteral(title), ProducerMarker, pdfDate(createdAt))
}
