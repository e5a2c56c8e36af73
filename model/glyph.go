package model

import "context"

// GlyphRun is a contiguous string of text sharing one transform and font,
// as emitted by a document's text layer. Runs are values; nothing in this
// module mutates a run after its source produced it.
type GlyphRun struct {
	// Text is the run's content, verbatim
	Text string

	// Transform places the run on the page. Transform[4] and Transform[5]
	// are the baseline origin; the scale is derived from Transform[0:2].
	Transform Matrix

	// Width is the advance width of the run in points
	Width float64

	// Height is the run height in points (usually the font size)
	Height float64

	// FontName is the base font name reported by the source
	FontName string

	// FontSizeHint is the font size reported by the source, or 0 when the
	// source does not report one
	FontSizeHint float64
}

// X returns the horizontal origin (the e component of the transform)
func (r GlyphRun) X() float64 {
	return r.Transform[4]
}

// Y returns the vertical baseline origin (the f component of the transform)
func (r GlyphRun) Y() float64 {
	return r.Transform[5]
}

// Scale returns the font scale recovered from the transform, sqrt(a² + b²)
func (r GlyphRun) Scale() float64 {
	return r.Transform.Scale()
}

// FontSize returns the hinted font size, falling back to the transform
// scale when the source gave no hint.
func (r GlyphRun) FontSize() float64 {
	if r.FontSizeHint > 0 {
		return r.FontSizeHint
	}
	return r.Scale()
}

// BBox returns the run's box in PDF space, from the baseline up. Runs with
// no reported height use their font size.
func (r GlyphRun) BBox() BBox {
	h := r.Height
	if h <= 0 {
		h = r.FontSize()
	}
	return BBox{X: r.X(), Y: r.Y(), Width: r.Width, Height: h}
}

// GlyphSource yields the glyph runs of one page of a document container.
// Pages are 1-indexed. Runs come back in the order the underlying library
// emits them, which is not necessarily reading order.
type GlyphSource interface {
	Runs(ctx context.Context, page int) ([]GlyphRun, error)
}
