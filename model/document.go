package model

import (
	"context"
	"errors"
)

// Document is an ordered sequence of pages over one source container.
//
// A Document exclusively owns its page slice and never changes after
// construction: WithPage and WithPages return new documents that share
// every page they do not replace. This is what lets an original and an
// edited Document coexist without copying.
type Document struct {
	Metadata Metadata

	pages  []*Page
	source GlyphSource
	raw    []byte
}

// Metadata contains document-level information
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// NewDocument creates a document from the container bytes it was loaded
// from, the glyph source over those bytes and its pages. raw and source
// may be nil for documents built in memory.
func NewDocument(raw []byte, source GlyphSource, pages []*Page) *Document {
	own := make([]*Page, len(pages))
	copy(own, pages)
	return &Document{
		pages:  own,
		source: source,
		raw:    raw,
	}
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns a page by number (1-indexed)
func (d *Document) Page(number int) *Page {
	if number < 1 || number > len(d.pages) {
		return nil
	}
	return d.pages[number-1]
}

// Pages returns the pages in order. The slice is a copy; the pages are shared.
func (d *Document) Pages() []*Page {
	out := make([]*Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// Geometry returns the size of every page in order
func (d *Document) Geometry() []Size {
	sizes := make([]Size, len(d.pages))
	for i, p := range d.pages {
		sizes[i] = p.Size()
	}
	return sizes
}

// Raw returns the container bytes the document was loaded from
func (d *Document) Raw() []byte {
	return d.raw
}

// Source returns the glyph source over the container bytes
func (d *Document) Source() GlyphSource {
	return d.source
}

// Pristine reports whether every page is an untouched source page, in
// which case the document serializes to its original bytes.
func (d *Document) Pristine() bool {
	if d.raw == nil {
		return false
	}
	for i, p := range d.pages {
		if !p.Pristine() || p.base != i+1 {
			return false
		}
	}
	return true
}

// WithPage returns a document with page number replaced by p. All other
// pages are shared with d.
func (d *Document) WithPage(number int, p *Page) *Document {
	if number < 1 || number > len(d.pages) {
		return d
	}
	next := d.derive(d.pages)
	next.pages[number-1] = p
	return next
}

// WithPages returns a document over the same source with a new page set
func (d *Document) WithPages(pages []*Page) *Document {
	return d.derive(pages)
}

func (d *Document) derive(pages []*Page) *Document {
	next := NewDocument(d.raw, d.source, pages)
	next.Metadata = d.Metadata
	return next
}

// Runs returns the glyph runs visible on page number, in source order
// followed by drawn runs. Source failures are returned as *ExtractionError.
func (d *Document) Runs(ctx context.Context, number int) ([]GlyphRun, error) {
	page := d.Page(number)
	if page == nil {
		return nil, &ExtractionError{Page: number, Err: ErrPageOutOfRange}
	}

	var source []GlyphRun
	if page.base > 0 && d.source != nil && !page.SourceHidden() {
		runs, err := d.source.Runs(ctx, page.base)
		if err != nil {
			var ee *ExtractionError
			if errors.As(err, &ee) {
				return nil, err
			}
			return nil, &ExtractionError{Page: number, Err: err}
		}
		source = runs
	}

	return page.VisibleRuns(source), nil
}
