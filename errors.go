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

package lp2pdf

import (
	"os"

	"github.com/mechiko/lp2pdf/internal/basefont"
	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/errs"
)

// Error returns the session's sticky error (see session.go).
// Strerror, File, FontList, and FormList are the free functions spec
// §6 lists alongside the session's own methods.

// Strerror renders a static message for an error returned by any
// session method, mirroring the C API's strerror(3) shape.
func Strerror(err error) string {
	if err == nil {
		return errs.OK.String()
	}
	return errs.KindOf(err).String()
}

// File reports whether path names an existing regular file, the
// check a caller runs before handing a formfile path to Set (spec
// §6).
func File(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

// FontList returns the accepted PDF standard-14 base font names for
// the font/nfont/nbold configuration keys (spec §6).
func FontList() []string {
	return basefont.Names()
}

// FormList returns the accepted form type names for the formtype
// configuration key (spec §6).
func FormList() []string {
	return config.FormList()
}
