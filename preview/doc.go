// Package preview rasterizes page surfaces for a quick look at an edit
// without a PDF viewer.
//
// Text is drawn with a fixed bitmap face, so glyph shapes and sizes are
// approximate; positions follow the page's baselines exactly.
//
//	img, err := preview.Page(ctx, doc, 1, preview.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	err = preview.EncodePNG(w, preview.Thumbnail(img, 400))
package preview
