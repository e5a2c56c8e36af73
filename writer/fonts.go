package writer

import (
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// DefaultFont is the core font used when a font name has no core match
const DefaultFont = "Helvetica"

var coreFamilies = map[string]string{
	"helvetica":       "Helvetica",
	"arial":           "Helvetica",
	"times":           "Times",
	"timesroman":      "Times",
	"timesnewroman":   "Times",
	"timesnewromanps": "Times",
	"courier":         "Courier",
	"couriernew":      "Courier",
	"couriernewps":    "Courier",
	"symbol":          "Symbol",
	"zapfdingbats":    "ZapfDingbats",
}

// IsCoreFont reports whether name is one of the standard PDF core font
// families, with or without a style suffix.
func IsCoreFont(name string) bool {
	_, ok := coreFamilies[familyKey(name)]
	return ok
}

// coreFont maps a PDF base font name such as "Times-BoldItalic" or
// "ABCDEF+Arial-BoldMT" to an fpdf core family and style string.
// Unrecognized families fall back to DefaultFont.
func coreFont(name string) (family, style string) {
	family, ok := coreFamilies[familyKey(name)]
	if !ok {
		family = DefaultFont
	}

	lower := strings.ToLower(name)
	if strings.Contains(lower, "bold") {
		style += "B"
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		style += "I"
	}
	if family == "Symbol" || family == "ZapfDingbats" {
		style = ""
	}
	return family, style
}

// familyKey strips a subset prefix and a style suffix and normalizes case
func familyKey(name string) string {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "-,"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "MT")
	name = strings.ReplaceAll(name, " ", "")
	return strings.ToLower(name)
}

// measurer holds an fpdf instance used only for its font metrics
var measurer struct {
	once sync.Once
	mu   sync.Mutex
	pdf  *fpdf.Fpdf
	tr   func(string) string
}

// StringWidth returns the advance width, in points, of s set in the core
// font matching fontName at size.
func StringWidth(fontName string, size float64, s string) float64 {
	measurer.once.Do(func() {
		measurer.pdf = fpdf.New("P", "pt", "Letter", "")
		measurer.tr = measurer.pdf.UnicodeTranslatorFromDescriptor("")
	})

	measurer.mu.Lock()
	defer measurer.mu.Unlock()

	family, style := coreFont(fontName)
	measurer.pdf.SetFont(family, style, size)
	return measurer.pdf.GetStringWidth(measurer.tr(s))
}
