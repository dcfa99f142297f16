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

// Package basefont validates against the fourteen PDF standard Type 1
// fonts. lp2pdf never embeds a font program, so only the name matters.
package basefont

var coreFontSet = map[string]bool{
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-Oblique":       true,
	"Courier-BoldOblique":   true,
	"Times-Roman":           true,
	"Times-Bold":            true,
	"Times-Italic":          true,
	"Times-BoldItalic":      true,
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"HelveticaOblique":      true,
	"Helvetica-BoldOblique": true,
	"Symbol":                true,
	"ZapfDingbats":          true,
}

// IsCoreFont returns true for the fourteen PDF standard Type 1 fonts.
func IsCoreFont(fontName string) bool {
	return coreFontSet[fontName]
}

// Names returns the accepted base font names, in the order the PDF
// spec conventionally lists them.
func Names() []string {
	return []string{
		"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
		"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
		"Helvetica", "Helvetica-Bold", "HelveticaOblique", "Helvetica-BoldOblique",
		"Symbol", "ZapfDingbats",
	}
}
