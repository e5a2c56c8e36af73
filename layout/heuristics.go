package layout

import (
	"math"
	"strings"
)

// Heuristics holds the markers the clusterer emits for structural signals
// it infers from font metrics and font names.
type Heuristics struct {
	// HeadingMarker is emitted before a run whose font grows past the
	// heading threshold (default: "\n# ")
	HeadingMarker string

	// BoldMarker is emitted on a font change to a bold font (default: "**")
	BoldMarker string

	// ItalicMarker is emitted on a font change to an italic font (default: "*")
	ItalicMarker string

	// LineBreak is emitted between line clusters (default: "\n")
	LineBreak string

	// PageSeparator is appended after every page (default: "\n\n")
	PageSeparator string
}

// DefaultHeuristics returns the standard marker set
func DefaultHeuristics() Heuristics {
	return Heuristics{
		HeadingMarker: "\n# ",
		BoldMarker:    "**",
		ItalicMarker:  "*",
		LineBreak:     "\n",
		PageSeparator: "\n\n",
	}
}

// IsBold reports whether a font name marks a bold face
func IsBold(fontName string) bool {
	return strings.Contains(strings.ToLower(fontName), "bold")
}

// IsItalic reports whether a font name marks an italic face
func IsItalic(fontName string) bool {
	return strings.Contains(strings.ToLower(fontName), "italic")
}

// startsLine reports whether y is far enough from the previous baseline to
// begin a new line cluster. A difference of exactly tolerance does not.
func startsLine(prevY, y, tolerance float64) bool {
	return math.Abs(y-prevY) > tolerance
}

// startsHeading reports whether the font grew by more than delta. A growth
// of exactly delta does not start a heading, and shrinking never does.
func startsHeading(prevSize, size, delta float64) bool {
	return size-prevSize > delta
}

// emphasis returns the markers for a transition into fontName. Bold and
// italic markers are opened once per transition and never closed.
func (h Heuristics) emphasis(fontName string) string {
	var sb strings.Builder
	if IsBold(fontName) {
		sb.WriteString(h.BoldMarker)
	}
	if IsItalic(fontName) {
		sb.WriteString(h.ItalicMarker)
	}
	return sb.String()
}
