// Package reader opens PDF containers.
//
// A [Reader] validates the container and reads page geometry with pdfcpu,
// then opens the text layer as a [text.PDFSource]:
//
//	r, err := reader.NewReader(data, reader.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := r.Document(nil)
//
// # Document Information
//
//   - Version() - PDF version from the header (e.g., 1.7)
//   - PageCount() - number of pages
//   - Geometry() - every page's size in points
//   - Info() - document info dictionary (metadata)
//
// The [model.Document] returned by Document is pristine: it keeps the
// container bytes and every page maps to the source page of the same
// number.
package reader
