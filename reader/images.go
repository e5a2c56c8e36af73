package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/palimpsest/ocr"
)

// imageIndex lazily optimizes the container so page images can be looked up
type imageIndex struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *pdfmodel.Context
	err  error
}

// PageImage returns the largest raster image drawn on page (1-indexed),
// for handing to OCR. Pages without images return ocr.ErrNoImage.
func (r *Reader) PageImage(ctx context.Context, page int) (img ocr.PageImage, err error) {
	if err := ctx.Err(); err != nil {
		return ocr.PageImage{}, err
	}
	if page < 1 || page > len(r.geometry) {
		return ocr.PageImage{}, fmt.Errorf("page %d out of range", page)
	}

	r.images.once.Do(func() {
		r.images.ctx, r.images.err = r.optimizedContext()
	})
	if r.images.err != nil {
		return ocr.PageImage{}, r.images.err
	}

	r.images.mu.Lock()
	defer r.images.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			img, err = ocr.PageImage{}, fmt.Errorf("failed to extract images of page %d: %v", page, rec)
		}
	}()

	images, err := pdfcpu.ExtractPageImages(r.images.ctx, page, false)
	if err != nil {
		return ocr.PageImage{}, fmt.Errorf("failed to extract images of page %d: %w", page, err)
	}

	var best *pdfmodel.Image
	for _, im := range images {
		im := im
		if best == nil || im.Width*im.Height > best.Width*best.Height {
			best = &im
		}
	}
	if best == nil || best.Reader == nil {
		return ocr.PageImage{}, ocr.ErrNoImage
	}

	data, err := io.ReadAll(best.Reader)
	if err != nil {
		return ocr.PageImage{}, fmt.Errorf("failed to read image %s: %w", best.Name, err)
	}

	return ocr.PageImage{Data: data, Width: best.Width, Height: best.Height}, nil
}

func (r *Reader) optimizedContext() (ctx *pdfmodel.Context, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ctx, err = nil, fmt.Errorf("failed to index images: %v", rec)
		}
	}()

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err = api.ReadValidateAndOptimize(bytes.NewReader(r.data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to index images: %w", err)
	}
	return ctx, nil
}
