package layout

import (
	"context"
	"sort"
	"strings"

	"github.com/tsawler/palimpsest/model"
)

// ClusterConfig holds configuration for line clustering
type ClusterConfig struct {
	// VerticalTolerance is the maximum baseline difference, in points, for
	// two runs to share a line (default: 5)
	VerticalTolerance float64

	// HeadingFontDelta is the font size growth, in points, above which a
	// run starts a heading (default: 2)
	HeadingFontDelta float64

	// Heuristics are the markers emitted for inferred structure
	Heuristics Heuristics
}

// DefaultClusterConfig returns the standard clustering configuration
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		VerticalTolerance: 5.0,
		HeadingFontDelta:  2.0,
		Heuristics:        DefaultHeuristics(),
	}
}

// Clusterer turns glyph runs into editable text with inline markers
type Clusterer struct {
	config ClusterConfig
}

// NewClusterer creates a clusterer with default configuration
func NewClusterer() *Clusterer {
	return &Clusterer{
		config: DefaultClusterConfig(),
	}
}

// NewClustererWithConfig creates a clusterer with custom configuration
func NewClustererWithConfig(config ClusterConfig) *Clusterer {
	return &Clusterer{
		config: config,
	}
}

// Config returns the clusterer's configuration
func (c *Clusterer) Config() ClusterConfig {
	return c.config
}

// clusterState is tracked across one page's pass and reset per page
type clusterState struct {
	started bool
	y       float64
	size    float64
	font    string
}

// Extract renders every page of doc, in order, as editable text. It fails
// only when the document's glyph source fails, and then produces no text.
func (c *Clusterer) Extract(ctx context.Context, doc *model.Document) (string, error) {
	var sb strings.Builder
	for n := 1; n <= doc.PageCount(); n++ {
		runs, err := doc.Runs(ctx, n)
		if err != nil {
			return "", err
		}
		c.writePage(&sb, runs)
	}
	return sb.String(), nil
}

// ExtractPage renders one page's runs as editable text, including the
// trailing page separator.
func (c *Clusterer) ExtractPage(runs []model.GlyphRun) string {
	var sb strings.Builder
	c.writePage(&sb, runs)
	return sb.String()
}

func (c *Clusterer) writePage(sb *strings.Builder, runs []model.GlyphRun) {
	h := c.config.Heuristics
	var state clusterState

	for _, run := range c.Sort(runs) {
		y := run.Y()
		size := run.FontSize()

		if state.started {
			if startsLine(state.y, y, c.config.VerticalTolerance) {
				sb.WriteString(h.LineBreak)
			}
			if startsHeading(state.size, size, c.config.HeadingFontDelta) {
				sb.WriteString(h.HeadingMarker)
			}
			if run.FontName != state.font {
				sb.WriteString(h.emphasis(run.FontName))
			}
		}

		sb.WriteString(run.Text)

		state = clusterState{
			started: true,
			y:       y,
			size:    size,
			font:    run.FontName,
		}
	}

	sb.WriteString(h.PageSeparator)
}

// Sort returns runs in reading order: descending baseline, and ascending
// horizontal origin for runs whose baselines lie within the vertical
// tolerance of each other. The input is not modified.
func (c *Clusterer) Sort(runs []model.GlyphRun) []model.GlyphRun {
	sorted := make([]model.GlyphRun, len(runs))
	copy(sorted, runs)

	tol := c.config.VerticalTolerance
	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[j].Y() - sorted[i].Y()
		if yDiff > tol || yDiff < -tol {
			return yDiff < 0 // Higher Y first (top of page)
		}
		return sorted[i].X() < sorted[j].X()
	})

	return sorted
}
