package text

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/palimpsest/model"
)

// ErrNoTextLayer is returned when a container has no readable text layer
var ErrNoTextLayer = errors.New("no text layer")

// PDFSource reads glyph runs from a PDF's text layer. Pages are decoded
// lazily and cached; a PDFSource is safe for concurrent use.
type PDFSource struct {
	mu     sync.Mutex
	reader *pdf.Reader
	config RunConfig
	cache  map[int][]model.GlyphRun
}

// NewPDFSource opens a glyph source over PDF data
func NewPDFSource(data []byte, cfg RunConfig) (src *PDFSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("failed to open text layer: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open text layer: %w", err)
	}

	return &PDFSource{
		reader: r,
		config: cfg,
		cache:  make(map[int][]model.GlyphRun),
	}, nil
}

// Runs returns the glyph runs of page (1-indexed) in emission order
func (s *PDFSource) Runs(ctx context.Context, page int) ([]model.GlyphRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if runs, ok := s.cache[page]; ok {
		return cloneRuns(runs), nil
	}

	if page < 1 || page > s.reader.NumPage() {
		return nil, &model.ExtractionError{Page: page, Err: model.ErrPageOutOfRange}
	}

	chars, err := s.pageChars(page)
	if err != nil {
		return nil, &model.ExtractionError{Page: page, Err: err}
	}

	runs := MergeChars(chars, s.config)
	s.cache[page] = runs
	return cloneRuns(runs), nil
}

// pageChars decodes one page's content. The underlying reader panics on
// some malformed streams, so panics are turned into errors here.
func (s *PDFSource) pageChars(page int) (chars []Char, err error) {
	defer func() {
		if r := recover(); r != nil {
			chars, err = nil, fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	p := s.reader.Page(page)
	if p.V.IsNull() {
		return nil, ErrNoTextLayer
	}

	content := p.Content()
	chars = make([]Char, 0, len(content.Text))
	for _, t := range content.Text {
		chars = append(chars, Char{
			S:    t.S,
			Font: t.Font,
			Size: t.FontSize,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
		})
	}
	return chars, nil
}

// Info returns the document information dictionary
func (s *PDFSource) Info() (meta model.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			meta = model.Metadata{}
		}
	}()

	info := s.reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	meta.Title = info.Key("Title").Text()
	meta.Author = info.Key("Author").Text()
	meta.Subject = info.Key("Subject").Text()
	meta.Creator = info.Key("Creator").Text()
	meta.Producer = info.Key("Producer").Text()
	return meta
}

// StaticSource serves fixed glyph runs keyed by 1-indexed page number.
// Pages not in the map have no runs.
type StaticSource map[int][]model.GlyphRun

// Runs implements model.GlyphSource
func (s StaticSource) Runs(ctx context.Context, page int) ([]model.GlyphRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneRuns(s[page]), nil
}

// ErrorSource is a glyph source that always fails with Err
type ErrorSource struct {
	Err error
}

// Runs implements model.GlyphSource
func (s ErrorSource) Runs(_ context.Context, page int) ([]model.GlyphRun, error) {
	return nil, &model.ExtractionError{Page: page, Err: s.Err}
}

func cloneRuns(runs []model.GlyphRun) []model.GlyphRun {
	if runs == nil {
		return nil
	}
	out := make([]model.GlyphRun, len(runs))
	copy(out, runs)
	return out
}
