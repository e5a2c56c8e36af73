// Package layout reconstructs reading order and light structure from the
// unordered glyph runs of a page.
//
// # Clustering
//
// The [Clusterer] sorts a page's runs by descending baseline, orders runs
// on roughly the same baseline left to right, and walks the result once,
// emitting text as it goes:
//
//	c := layout.NewClusterer()
//	text, err := c.Extract(ctx, doc)
//
// During the walk it emits:
//
//   - a line break when the baseline moves by more than VerticalTolerance
//   - a heading marker when the font grows by more than HeadingFontDelta
//   - a bold or italic marker when the font name changes to a bold or
//     italic face
//
// Every page ends with the page separator, so a document with no text at
// all extracts to one separator per page.
//
// # Markers
//
// Emphasis markers are opened on a font transition and never closed. The
// output is therefore not balanced Markdown, and extracting, rendering and
// extracting again is not expected to round trip.
//
// # Limitations
//
// Reading order is correct for single-column, left-to-right text only.
// Columns and tables are not detected.
package layout
