package model

// OpKind identifies a drawing operation on a page surface
type OpKind int

const (
	OpUnknown OpKind = iota
	OpMask           // opaque white rectangle
	OpText           // single line of text
)

// String returns a string representation of the kind
func (k OpKind) String() string {
	switch k {
	case OpMask:
		return "mask"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Op is one drawing operation layered over a page's source content.
// Coordinates are PDF user space (origin bottom-left).
type Op struct {
	Kind OpKind

	// Rect is the area erased by an OpMask
	Rect BBox

	// Run is the text drawn by an OpText. Its transform carries the
	// baseline origin and font size.
	Run GlyphRun
}

// MaskOp returns an operation that paints rect opaque white
func MaskOp(rect BBox) Op {
	return Op{Kind: OpMask, Rect: rect}
}

// TextOp returns an operation that draws run
func TextOp(run GlyphRun) Op {
	return Op{Kind: OpText, Run: run}
}

// coverTolerance is the slack, in points, allowed when deciding whether a
// mask hides a run.
const coverTolerance = 0.5
