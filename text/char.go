package text

import (
	"math"
	"strings"

	"github.com/tsawler/palimpsest/model"
)

// Char is a single positioned glyph as reported by a PDF text layer.
// X and Y are the baseline origin in PDF user space; W is the advance.
type Char struct {
	S    string
	Font string
	Size float64
	X, Y float64
	W    float64
}

// RunConfig holds thresholds for merging glyphs into runs
type RunConfig struct {
	// BaselineTolerance is the maximum baseline drift, in points, for two
	// glyphs to share a run
	BaselineTolerance float64

	// WordGapRatio is the gap, as a fraction of font size, above which a
	// space is inserted between merged glyphs
	WordGapRatio float64

	// RunGapRatio is the gap, as a fraction of font size, above which the
	// next glyph starts a new run
	RunGapRatio float64
}

// DefaultRunConfig returns sensible defaults for run merging
func DefaultRunConfig() RunConfig {
	return RunConfig{
		BaselineTolerance: 1.0,
		WordGapRatio:      0.25,
		RunGapRatio:       1.5,
	}
}

// MergeChars merges glyphs, in emission order, into glyph runs. Consecutive
// glyphs join a run when they share font and size, sit on the same baseline
// and follow each other closely enough; anything else starts a new run.
func MergeChars(chars []Char, cfg RunConfig) []model.GlyphRun {
	var runs []model.GlyphRun
	var cur *runBuilder

	flush := func() {
		if cur != nil {
			if run, ok := cur.build(); ok {
				runs = append(runs, run)
			}
			cur = nil
		}
	}

	for _, c := range chars {
		if c.S == "" {
			continue
		}
		if cur != nil && cur.accepts(c, cfg) {
			cur.add(c, cfg)
			continue
		}
		flush()
		if isBlank(c.S) {
			// Runs never start with whitespace
			continue
		}
		cur = newRunBuilder(c)
	}
	flush()

	return runs
}

type runBuilder struct {
	sb    strings.Builder
	font  string
	size  float64
	x, y  float64
	right float64
}

func newRunBuilder(c Char) *runBuilder {
	b := &runBuilder{
		font:  c.Font,
		size:  c.Size,
		x:     c.X,
		y:     c.Y,
		right: c.X + c.W,
	}
	b.sb.WriteString(c.S)
	return b
}

func (b *runBuilder) accepts(c Char, cfg RunConfig) bool {
	if c.Font != b.font || math.Abs(c.Size-b.size) > 0.01 {
		return false
	}
	if math.Abs(c.Y-b.y) > cfg.BaselineTolerance {
		return false
	}

	gap := c.X - b.right
	limit := b.size * cfg.RunGapRatio
	return gap <= limit && gap >= -limit
}

func (b *runBuilder) add(c Char, cfg RunConfig) {
	gap := c.X - b.right
	if gap > b.size*cfg.WordGapRatio && !b.endsBlank() && !isBlank(c.S) {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(c.S)
	if r := c.X + c.W; r > b.right {
		b.right = r
	}
}

func (b *runBuilder) endsBlank() bool {
	s := b.sb.String()
	return len(s) > 0 && isWhitespace(s[len(s)-1])
}

func (b *runBuilder) build() (model.GlyphRun, bool) {
	txt := strings.TrimRight(b.sb.String(), " \t")
	if txt == "" {
		return model.GlyphRun{}, false
	}

	size := b.size
	if size <= 0 {
		size = 1
	}
	return model.GlyphRun{
		Text:         txt,
		Transform:    model.TextMatrix(size, b.x, b.y),
		Width:        b.right - b.x,
		Height:       size,
		FontName:     b.font,
		FontSizeHint: b.size,
	}, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isWhitespace checks if a byte is a whitespace character
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
