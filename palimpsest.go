// Package palimpsest edits the text of PDF documents by drawing over their
// pages instead of rewriting their content streams.
//
// A [Session] holds a loaded document, the editable text extracted from it,
// and the current edited version:
//
//	s, warnings, err := palimpsest.Open("resume.pdf")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", palimpsest.FormatWarnings(warnings))
//	}
//
//	fmt.Println(s.Text())
//	err = s.ApplyPhraseReplace(ctx, "Acme Corp", "Globex")
//	err = s.Export(out)
//
// Editable text marks headings with "# " lines and bold or italic spans
// with "**" and "*". ApplyTextEdit masks every page of the original and
// draws the new text top-down; ApplyPhraseReplace masks one run and draws
// the replacement in its place. Reset returns to the original.
//
// The lower-level packages (layout, render, patch, reader, writer) can be
// used on their own.
package palimpsest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tsawler/palimpsest/format"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/ocr"
	"github.com/tsawler/palimpsest/reader"
	"github.com/tsawler/palimpsest/text"
)

// ErrUnsupportedFormat is returned when loaded data is not a PDF
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Open reads a PDF file and loads it into a new session
func Open(filename string, opts ...Option) (*Session, []Warning, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	if f := format.DetectFile(filename, data); f != format.PDF {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, filename, f)
	}

	return Load(context.Background(), data, opts...)
}

// Load reads PDF data and loads it into a new session
func Load(ctx context.Context, data []byte, opts ...Option) (*Session, []Warning, error) {
	if f := format.DetectFromMagic(data); f != format.PDF {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	o := buildOptions(opts)

	r, err := reader.NewReader(data, o.reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	o.log.WithField("version", r.Version().String()).Debug("container read")

	s := newSession(o)
	warnings, err := s.LoadOriginal(ctx, r.Document(glyphSource(r, o)))
	if err != nil {
		return nil, warnings, err
	}
	return s, warnings, nil
}

// glyphSource layers the configured fallback and timeout over the
// container's text layer
func glyphSource(r *reader.Reader, o options) model.GlyphSource {
	var src model.GlyphSource = r.Source()

	secondary := o.fallback
	if secondary == nil && o.ocr != nil {
		secondary = &ocr.Source{
			Recognizer: o.ocr,
			Images:     r,
			Sizes:      r.Geometry(),
		}
	}
	if secondary != nil {
		src = text.FallbackSource{Primary: src, Secondary: secondary}
	}

	return text.WithTimeout(src, o.timeout)
}
