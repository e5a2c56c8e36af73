package model

// Page is a single page of a Document: its geometry, the page of the
// source container it is drawn over, and the operations drawn on top.
//
// A Page is immutable. Draw returns a new Page, so documents can share
// unchanged pages freely.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in points
	Height float64 // Page height in points

	base int  // 1-indexed source page, 0 for a blank page
	ops  []Op // drawn over the source content, in order
}

// NewPage creates a page of the given size drawn over source page base.
// A base of 0 creates a blank page with no source content.
func NewPage(number int, size Size, base int) *Page {
	return &Page{
		Number: number,
		Width:  size.Width,
		Height: size.Height,
		base:   base,
	}
}

// Size returns the page dimensions
func (p *Page) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}

// Bounds returns the full page box
func (p *Page) Bounds() BBox {
	return BBox{Width: p.Width, Height: p.Height}
}

// Base returns the source page this page is drawn over (0 if blank)
func (p *Page) Base() int {
	return p.base
}

// Ops returns a copy of the drawn operations
func (p *Page) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// Pristine reports whether nothing has been drawn over the source content
func (p *Page) Pristine() bool {
	return len(p.ops) == 0
}

// Draw returns a new page with ops layered on top of p's surface
func (p *Page) Draw(ops ...Op) *Page {
	next := &Page{
		Number: p.Number,
		Width:  p.Width,
		Height: p.Height,
		base:   p.base,
		ops:    make([]Op, 0, len(p.ops)+len(ops)),
	}
	next.ops = append(next.ops, p.ops...)
	next.ops = append(next.ops, ops...)
	return next
}

// SourceHidden reports whether a drawn mask erases the whole page, which
// hides every source run.
func (p *Page) SourceHidden() bool {
	bounds := p.Bounds()
	for _, op := range p.ops {
		if op.Kind == OpMask && op.Rect.Covers(bounds, coverTolerance) {
			return true
		}
	}
	return false
}

// DrawnRuns returns the text runs drawn on the page, in draw order
func (p *Page) DrawnRuns() []GlyphRun {
	var runs []GlyphRun
	for _, op := range p.ops {
		if op.Kind == OpText {
			runs = append(runs, op.Run)
		}
	}
	return runs
}

// VisibleRuns layers the page's drawn operations over the given source runs
// and returns what a reader would still see: source runs first, then drawn
// runs in draw order, minus any run covered by a mask drawn after it.
func (p *Page) VisibleRuns(source []GlyphRun) []GlyphRun {
	var out []GlyphRun
	for _, run := range source {
		if !p.maskedAfter(-1, run) {
			out = append(out, run)
		}
	}
	for i, op := range p.ops {
		if op.Kind == OpText && !p.maskedAfter(i, op.Run) {
			out = append(out, op.Run)
		}
	}
	return out
}

// maskedAfter reports whether a mask drawn after position pos covers run.
// Source runs sit at position -1, below every drawn operation.
func (p *Page) maskedAfter(pos int, run GlyphRun) bool {
	box := run.BBox()
	for _, op := range p.ops[pos+1:] {
		if op.Kind == OpMask && op.Rect.Covers(box, coverTolerance) {
			return true
		}
	}
	return false
}
