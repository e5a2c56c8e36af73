package layout

import (
	"math"
	"strings"

	"github.com/tsawler/palimpsest/model"
)

// Line represents a single line cluster of a page
type Line struct {
	// Runs are the glyph runs of the line, in reading order
	Runs []model.GlyphRun

	// Baseline is the Y coordinate of the cluster's first run
	Baseline float64

	// BBox is the bounding box of the line
	BBox model.BBox

	// FontSize is the largest font size on the line
	FontSize float64
}

// Text returns the line's runs concatenated, verbatim
func (l Line) Text() string {
	var sb strings.Builder
	for _, r := range l.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Lines groups runs into line clusters, top to bottom. A run joins the
// current cluster when its baseline lies within the vertical tolerance of
// the cluster's first run.
func (c *Clusterer) Lines(runs []model.GlyphRun) []Line {
	var lines []Line
	tol := c.config.VerticalTolerance

	for _, run := range c.Sort(runs) {
		if n := len(lines); n > 0 && math.Abs(run.Y()-lines[n-1].Baseline) <= tol {
			last := &lines[n-1]
			last.Runs = append(last.Runs, run)
			last.BBox = last.BBox.Union(run.BBox())
			last.FontSize = math.Max(last.FontSize, run.FontSize())
			continue
		}
		lines = append(lines, Line{
			Runs:     []model.GlyphRun{run},
			Baseline: run.Y(),
			BBox:     run.BBox(),
			FontSize: run.FontSize(),
		})
	}

	return lines
}
