// Package markup moves editable content in and out of the lightweight
// markup produced by the line clusterer.
//
// Editable content is plain lines with a handful of markers: a line starting
// with "# " is a heading, and "**" or "*" open bold or italic spans. Markers
// are never closed by the clusterer, so renderers must tolerate unpaired
// ones.
//
// [ToHTML] turns content into an HTML fragment for a preview pane, and
// [FromHTML] turns the HTML of a rich-text editor back into content that
// the overlay renderer can draw. [Outline] lists the headings with their
// line numbers.
package markup
