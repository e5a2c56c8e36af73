// Package writer serializes documents back to PDF bytes.
//
// A pristine [model.Document] is written as the exact bytes it was loaded
// from. Any other document is composed with fpdf: each page that still
// shows its source content is imported from the original container with
// gofpdi, then the page's masks and text are drawn over it.
//
//	data, err := writer.Bytes(doc)
//
// Text is drawn in the PDF core fonts only. [StringWidth] measures text
// with the same metrics the writer draws with.
package writer
