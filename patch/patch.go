package patch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/writer"
)

var (
	// ErrNotFound is matched by every *NotFoundError
	ErrNotFound = errors.New("phrase not found")

	// ErrEmptyTarget is returned when asked to find an empty phrase
	ErrEmptyTarget = errors.New("empty search phrase")

	// ErrEmptyReplacement is returned when asked to replace a phrase with
	// nothing
	ErrEmptyReplacement = errors.New("empty replacement phrase")
)

// NotFoundError reports that no glyph run contains the target phrase
type NotFoundError struct {
	Target string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("phrase %q not found in any glyph run", e.Target)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Config holds configuration for in-place replacement
type Config struct {
	// MaskPadding is added to the font scale for the mask height and
	// extends the mask below the baseline by the same amount (default: 2)
	MaskPadding float64

	// Font is the core font the replacement is drawn in. An empty Font
	// reuses the matched run's font name (default: Helvetica)
	Font string

	// KeepRunText redraws the whole matched run with the target replaced
	// once, instead of drawing only the replacement (default: false)
	KeepRunText bool
}

// DefaultConfig returns the default replacement configuration
func DefaultConfig() Config {
	return Config{
		MaskPadding: 2,
		Font:        writer.DefaultFont,
	}
}

// Match is the first glyph run found to contain a phrase
type Match struct {
	// PageNumber is the 1-indexed page holding the run
	PageNumber int

	// RunIndex is the run's position in the page's source order
	RunIndex int

	// Run is the matched glyph run
	Run model.GlyphRun

	// TopLeft is the run origin in top-left page space: (e, pageHeight - f)
	TopLeft model.Point

	// Width and Height are taken from the run
	Width  float64
	Height float64

	// FontScale is the scale recovered from the run transform
	FontScale float64
}

// Patcher finds phrases in glyph runs and replaces them in place
type Patcher struct {
	config Config
}

// NewPatcher creates a patcher with default configuration
func NewPatcher() *Patcher {
	return &Patcher{
		config: DefaultConfig(),
	}
}

// NewPatcherWithConfig creates a patcher with custom configuration
func NewPatcherWithConfig(config Config) *Patcher {
	return &Patcher{
		config: config,
	}
}

// Locate scans pages in order, and each page's runs in source order, for
// the first run whose text contains target. Phrases split across runs are
// not found.
func (p *Patcher) Locate(ctx context.Context, doc *model.Document, target string) (Match, error) {
	if target == "" {
		return Match{}, ErrEmptyTarget
	}

	for n := 1; n <= doc.PageCount(); n++ {
		runs, err := doc.Runs(ctx, n)
		if err != nil {
			return Match{}, err
		}

		for i, run := range runs {
			if !strings.Contains(run.Text, target) {
				continue
			}
			page := doc.Page(n)
			return Match{
				PageNumber: n,
				RunIndex:   i,
				Run:        run,
				TopLeft:    model.Point{X: run.X(), Y: page.Height - run.Y()},
				Width:      run.Width,
				Height:     run.Height,
				FontScale:  run.Scale(),
			}, nil
		}
	}

	return Match{}, &NotFoundError{Target: target}
}

// Replace replaces the first occurrence of target with replacement. Only
// the owning page is redrawn; every other page is shared with doc. When
// target is absent doc is left as it is and a *NotFoundError is returned.
// An empty replacement is rejected with ErrEmptyReplacement.
func (p *Patcher) Replace(ctx context.Context, doc *model.Document, target, replacement string) (*model.Document, error) {
	if replacement == "" {
		return nil, ErrEmptyReplacement
	}
	m, err := p.Locate(ctx, doc, target)
	if err != nil {
		return nil, err
	}
	return p.Apply(doc, m, target, replacement), nil
}

// Apply patches the run described by m: it masks the run and draws the
// replacement on its baseline at the recovered font scale.
func (p *Patcher) Apply(doc *model.Document, m Match, target, replacement string) *model.Document {
	page := doc.Page(m.PageNumber)
	if page == nil {
		return doc
	}

	run := m.Run
	scale := m.FontScale
	pad := p.config.MaskPadding

	font := p.config.Font
	if font == "" {
		font = run.FontName
	}

	width := m.Width
	if width <= 0 {
		// Some sources report no advance; estimate it
		width = writer.StringWidth(run.FontName, scale, run.Text)
	}

	mask := model.NewBBox(run.X(), run.Y()-pad, width, scale+pad)

	drawn := replacement
	if p.config.KeepRunText {
		drawn = strings.Replace(run.Text, target, replacement, 1)
	}

	ops := []model.Op{model.MaskOp(mask)}
	if drawn != "" {
		ops = append(ops, model.TextOp(model.GlyphRun{
			Text:         drawn,
			Transform:    model.TextMatrix(scale, run.X(), run.Y()),
			Width:        writer.StringWidth(font, scale, drawn),
			Height:       scale,
			FontName:     font,
			FontSizeHint: scale,
		}))
	}

	return doc.WithPage(m.PageNumber, page.Draw(ops...))
}
