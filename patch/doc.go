// Package patch replaces a single phrase on a page without re-rendering
// the document.
//
// [Patcher.Locate] returns the first glyph run, in page order and then
// source order, whose text contains the phrase. [Patcher.Replace] masks that
// run with a white box and draws the replacement on the same baseline at
// the font scale recovered from the run's transform, sqrt(a² + b²).
//
//	p := patch.NewPatcher()
//	next, err := p.Replace(ctx, doc, "Acme Corp", "Globex")
//	if errors.Is(err, patch.ErrNotFound) {
//	    // doc is unchanged
//	}
//
// The mask spans the run's width and the font scale plus MaskPadding,
// starting MaskPadding below the baseline so descenders are covered.
package patch
