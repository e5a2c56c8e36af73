// Package model provides the in-memory representation of a paginated
// document as palimpsest sees it.
//
// # Glyph Runs
//
// A [GlyphRun] is the unit a document's text layer emits: a string with one
// affine [Matrix], a width, a height and a font. Runs come from a
// [GlyphSource] and are never mutated.
//
// # Pages and Surfaces
//
// A [Page] pairs page geometry with the source page it is drawn over and a
// list of drawing operations ([Op]) layered on top: opaque masks and text.
// Pages are immutable; drawing returns a new page.
//
//	page := doc.Page(1)
//	edited := page.Draw(model.MaskOp(page.Bounds()))
//	next := doc.WithPage(1, edited)
//
// # Documents
//
// A [Document] is an ordered page sequence over one source container.
// Documents derived with [Document.WithPage] or [Document.WithPages] share
// every page they do not replace, and a [Document.Pristine] document
// serializes back to the exact bytes it was loaded from.
//
// # Coordinates
//
// All coordinates are PDF user space: origin at the bottom-left corner,
// Y growing upward, units in points. [BBox.FlipY] converts a box to a
// top-left origin space.
package model
