package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/writer"
)

var (
	// ErrNoPages is returned when the original document has no pages
	ErrNoPages = errors.New("document has no pages")

	// ErrInvalidGeometry is returned for pages without a positive, finite size
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrInvalidConfig is returned for unusable layout settings
	ErrInvalidConfig = errors.New("invalid render configuration")
)

// RenderError reports a failed render. The document passed to Render is
// never modified, so the caller's state stays valid.
type RenderError struct {
	Stage string // "config", "geometry" or "prepare"
	Err   error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Config holds the fixed layout policy for re-rendered pages
type Config struct {
	// Margin is the blank border on every side, in points (default: 50)
	Margin float64

	// LineHeight is the baseline-to-baseline distance (default: 18)
	LineHeight float64

	// FontSize is the size text is drawn at (default: 12)
	FontSize float64

	// Font is the core font text is drawn in (default: Helvetica)
	Font string
}

// DefaultConfig returns the standard layout policy
func DefaultConfig() Config {
	return Config{
		Margin:     50,
		LineHeight: 18,
		FontSize:   12,
		Font:       writer.DefaultFont,
	}
}

// Validate reports whether the configuration can lay out text
func (c Config) Validate() error {
	switch {
	case c.Margin < 0 || math.IsNaN(c.Margin) || math.IsInf(c.Margin, 0):
		return fmt.Errorf("%w: margin %v", ErrInvalidConfig, c.Margin)
	case !(c.LineHeight > 0) || math.IsInf(c.LineHeight, 0):
		return fmt.Errorf("%w: line height %v", ErrInvalidConfig, c.LineHeight)
	case !(c.FontSize > 0) || math.IsInf(c.FontSize, 0):
		return fmt.Errorf("%w: font size %v", ErrInvalidConfig, c.FontSize)
	case !writer.IsCoreFont(c.Font):
		return fmt.Errorf("%w: font %q is not a core font", ErrInvalidConfig, c.Font)
	}
	return nil
}

// Capacity returns how many lines fit on a page of the given height:
// floor((height - 2*margin) / lineHeight), never negative.
func (c Config) Capacity(pageHeight float64) int {
	usable := pageHeight - 2*c.Margin
	if usable <= 0 {
		return 0
	}
	return int(math.Floor(usable / c.LineHeight))
}

// Baseline returns the PDF-space baseline of the k-th line (0-based) on a
// page of the given height.
func (c Config) Baseline(pageHeight float64, k int) float64 {
	return pageHeight - c.Margin - float64(k)*c.LineHeight
}

// printable keeps only the characters 0x20 through 0x7E
var printable = runes.Predicate(func(r rune) bool {
	return r < 0x20 || r > 0x7E
})

// Prepare turns edited text into the lines to draw: it splits on line
// breaks, drops blank lines, then strips every character outside printable
// ASCII. Stripped characters are removed, not substituted.
func Prepare(edited string) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(edited, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		clean, _, err := transform.String(runes.Remove(printable), line)
		if err != nil {
			return nil, err
		}
		lines = append(lines, clean)
	}
	return lines, nil
}

// Result describes a completed render
type Result struct {
	// Document is the newly rendered document
	Document *model.Document

	// Lines is the number of lines prepared from the edited text
	Lines int

	// Drawn is the number of lines that fit on the page set
	Drawn int

	// Capacity is the total line capacity of the page set
	Capacity int
}

// Dropped returns how many prepared lines did not fit
func (r Result) Dropped() int {
	return r.Lines - r.Drawn
}

// Renderer re-renders edited text over a document's page geometry
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with the default layout policy
func NewRenderer() *Renderer {
	return &Renderer{
		config: DefaultConfig(),
	}
}

// NewRendererWithConfig creates a renderer with a custom layout policy
func NewRendererWithConfig(config Config) *Renderer {
	return &Renderer{
		config: config,
	}
}

// Config returns the renderer's layout policy
func (r *Renderer) Config() Config {
	return r.config
}

// Render draws edited over every page of original and returns the new
// document. See RenderResult.
func (r *Renderer) Render(original *model.Document, edited string) (*model.Document, error) {
	res, err := r.RenderResult(original, edited)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// RenderResult draws edited over every page of original. Each page keeps
// its size, is masked entirely, and receives lines top-down from a cursor
// shared across pages. Lines beyond the page set's capacity are dropped.
// Either every page is rendered or an error is returned; original is never
// modified.
func (r *Renderer) RenderResult(original *model.Document, edited string) (Result, error) {
	if err := r.config.Validate(); err != nil {
		return Result{}, &RenderError{Stage: "config", Err: err}
	}

	src := original.Pages()
	if len(src) == 0 {
		return Result{}, &RenderError{Stage: "geometry", Err: ErrNoPages}
	}
	for _, p := range src {
		if !p.Size().Valid() {
			return Result{}, &RenderError{
				Stage: "geometry",
				Err:   fmt.Errorf("%w: page %d is %vx%v", ErrInvalidGeometry, p.Number, p.Width, p.Height),
			}
		}
	}

	lines, err := Prepare(edited)
	if err != nil {
		return Result{}, &RenderError{Stage: "prepare", Err: err}
	}

	res := Result{Lines: len(lines)}
	pages := make([]*model.Page, len(src))
	cursor := 0

	for i, p := range src {
		capacity := r.config.Capacity(p.Height)
		res.Capacity += capacity

		ops := make([]model.Op, 0, 1+min(capacity, len(lines)-cursor))
		ops = append(ops, model.MaskOp(p.Bounds()))
		for k := 0; k < capacity && cursor < len(lines); k++ {
			ops = append(ops, model.TextOp(r.lineRun(lines[cursor], p.Height, k)))
			cursor++
		}

		pages[i] = model.NewPage(p.Number, p.Size(), p.Base()).Draw(ops...)
	}

	res.Drawn = cursor
	res.Document = original.WithPages(pages)
	return res, nil
}

func (r *Renderer) lineRun(line string, pageHeight float64, k int) model.GlyphRun {
	size := r.config.FontSize
	return model.GlyphRun{
		Text:         line,
		Transform:    model.TextMatrix(size, r.config.Margin, r.config.Baseline(pageHeight, k)),
		Width:        writer.StringWidth(r.config.Font, size, line),
		Height:       size,
		FontName:     r.config.Font,
		FontSizeHint: size,
	}
}
