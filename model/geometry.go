package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Size is the width and height of a page in points
type Size struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive and finite
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Covers reports whether other lies entirely inside b, allowing a slack of
// tolerance points on every edge.
func (b BBox) Covers(other BBox, tolerance float64) bool {
	return other.Left() >= b.Left()-tolerance &&
		other.Right() <= b.Right()+tolerance &&
		other.Bottom() >= b.Bottom()-tolerance &&
		other.Top() <= b.Top()+tolerance
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: top - y,
	}
}

// FlipY converts the box into a top-left origin space for a page of the
// given height. The returned box's Y is the distance from the page top to
// the box's top edge.
func (b BBox) FlipY(pageHeight float64) BBox {
	return BBox{
		X:      b.X,
		Y:      pageHeight - b.Top(),
		Width:  b.Width,
		Height: b.Height,
	}
}

// Matrix is a PDF affine transform [a b c d e f]. Points map as
// x' = a*x + c*y + e and y' = b*x + d*y + f.
type Matrix [6]float64

// TextMatrix returns the transform of upright text of the given size whose
// baseline starts at (x, y).
func TextMatrix(size, x, y float64) Matrix {
	return Matrix{size, 0, 0, size, x, y}
}

// Scale returns the horizontal scale factor sqrt(a² + b²). For a glyph run
// transform this is the effective font size including rotation.
func (m Matrix) Scale() float64 {
	return math.Hypot(m[0], m[1])
}
