// Package text provides glyph sources: the readers that turn a document
// container's text layer into [model.GlyphRun] values.
//
// # PDF Text Layer
//
// [PDFSource] decodes pages with github.com/ledongthuc/pdf, which reports
// one positioned glyph at a time. [MergeChars] folds those glyphs back into
// runs sharing font, size and baseline:
//
//	src, err := text.NewPDFSource(data, text.DefaultRunConfig())
//	runs, err := src.Runs(ctx, 1)
//
// # Composition
//
// Sources compose:
//
//   - [WithTimeout] bounds each page read
//   - [FallbackSource] consults a second source (for example OCR) for
//     pages the first cannot read
//   - [StaticSource] serves fixed runs, mostly for tests
package text
