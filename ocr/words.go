package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/tsawler/palimpsest/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrNoImage is returned by an ImageProvider for a page with no raster image
var ErrNoImage = errors.New("page has no image")

// Word is one recognized word. Box is in pixels of the recognized image,
// origin top-left.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64 // 0 to 100

	// Line identifies the text line the word belongs to; consecutive words
	// with the same Line are merged into one run
	Line int
}

// PageImage is an encoded raster image (PNG, JPEG, TIFF) covering a page
type PageImage struct {
	Data   []byte
	Width  int // pixels
	Height int // pixels
}

// ImageProvider returns the raster image of a page (1-indexed)
type ImageProvider interface {
	PageImage(ctx context.Context, page int) (PageImage, error)
}

// Recognizer turns an encoded image into words
type Recognizer interface {
	RecognizeWords(data []byte) ([]Word, error)
}

// Source is a glyph source that recognizes text on page images. It is meant
// as the secondary of a text.FallbackSource for scanned pages.
type Source struct {
	Recognizer Recognizer
	Images     ImageProvider

	// Sizes holds each page's size in points, in page order
	Sizes []model.Size

	// MinConfidence drops words recognized below this confidence
	MinConfidence float64
}

// Runs recognizes the image of page and returns one run per text line
func (s *Source) Runs(ctx context.Context, page int) ([]model.GlyphRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || page > len(s.Sizes) {
		return nil, &model.ExtractionError{Page: page, Err: fmt.Errorf("page %d out of range", page)}
	}

	img, err := s.Images.PageImage(ctx, page)
	if errors.Is(err, ErrNoImage) {
		return nil, nil
	}
	if err != nil {
		return nil, &model.ExtractionError{Page: page, Err: err}
	}

	words, err := s.Recognizer.RecognizeWords(img.Data)
	if err != nil {
		return nil, &model.ExtractionError{Page: page, Err: err}
	}

	return WordsToRuns(words, image.Pt(img.Width, img.Height), s.Sizes[page-1], s.MinConfidence), nil
}

// WordsToRuns maps recognized words onto a page of the given size. The image
// is assumed to cover the whole page. Words of one line become a single run
// joined by spaces, with the baseline at the bottom of the line's box and
// the box height as font size.
func WordsToRuns(words []Word, imgSize image.Point, page model.Size, minConfidence float64) []model.GlyphRun {
	if imgSize.X <= 0 || imgSize.Y <= 0 || !page.Valid() {
		return nil
	}

	sx := page.Width / float64(imgSize.X)
	sy := page.Height / float64(imgSize.Y)

	var (
		runs  []model.GlyphRun
		parts []string
		box   image.Rectangle
		line  int
	)

	flush := func() {
		if len(parts) == 0 {
			return
		}
		size := float64(box.Dy()) * sy
		x := float64(box.Min.X) * sx
		y := page.Height - float64(box.Max.Y)*sy
		runs = append(runs, model.GlyphRun{
			Text:         strings.Join(parts, " "),
			Transform:    model.TextMatrix(size, x, y),
			Width:        float64(box.Dx()) * sx,
			Height:       size,
			FontName:     "OCR",
			FontSizeHint: size,
		})
		parts = nil
	}

	for _, w := range words {
		txt := strings.TrimSpace(w.Text)
		if txt == "" || w.Confidence < minConfidence || w.Box.Empty() {
			continue
		}
		if len(parts) > 0 && w.Line != line {
			flush()
		}
		if len(parts) == 0 {
			box = w.Box
		} else {
			box = box.Union(w.Box)
		}
		line = w.Line
		parts = append(parts, txt)
	}
	flush()

	return runs
}
