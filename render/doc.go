// Package render re-renders edited text over a document's pages.
//
// The layout policy is deliberately fixed: every page is masked entirely,
// then lines are drawn top-down from height-margin, one per lineHeight,
// in a single core font. A page holds
//
//	floor((height - 2*margin) / lineHeight)
//
// lines. The line cursor carries over from page to page, and lines left
// over once the last page is full are dropped silently ([Result.Dropped]
// reports how many).
//
// Edited text is prepared with [Prepare]: blank lines are dropped and
// every character outside printable ASCII is removed.
package render
