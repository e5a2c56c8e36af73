package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/palimpsest/model"
)

// ErrInvalidScale is returned for a non-positive scale
var ErrInvalidScale = errors.New("preview scale must be positive")

// Options controls rasterization
type Options struct {
	// Scale is pixels per point; 1 renders at 72 dpi
	Scale float64

	// Face draws every run regardless of its font size
	Face font.Face

	Background color.Color
	Foreground color.Color
}

// DefaultOptions renders at 72 dpi with a 7x13 bitmap face
func DefaultOptions() Options {
	return Options{
		Scale:      1,
		Face:       basicfont.Face7x13,
		Background: color.White,
		Foreground: color.Black,
	}
}

// Page rasterizes page number of doc. Source runs still visible under the
// page's operations are drawn first, then the operations are replayed in
// order: masks as background-coloured boxes and text at its baseline.
func Page(ctx context.Context, doc *model.Document, number int, opts Options) (image.Image, error) {
	if opts.Scale <= 0 {
		return nil, ErrInvalidScale
	}
	if opts.Face == nil {
		opts.Face = basicfont.Face7x13
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}

	page := doc.Page(number)
	if page == nil {
		return nil, &model.ExtractionError{Page: number, Err: model.ErrPageOutOfRange}
	}

	var source []model.GlyphRun
	if page.Base() > 0 && doc.Source() != nil && !page.SourceHidden() {
		runs, err := doc.Source().Runs(ctx, page.Base())
		if err != nil {
			var ee *model.ExtractionError
			if errors.As(err, &ee) {
				return nil, err
			}
			return nil, &model.ExtractionError{Page: number, Err: err}
		}
		source = runs
	}

	size := page.Size()
	c := &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, px(size.Width, opts.Scale), px(size.Height, opts.Scale))),
		height: size.Height,
		opts:   opts,
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for _, run := range source {
		c.text(run)
	}
	for _, op := range page.Ops() {
		switch op.Kind {
		case model.OpMask:
			c.mask(op.Rect)
		case model.OpText:
			c.text(op.Run)
		}
	}

	return c.img, nil
}

type canvas struct {
	img    *image.RGBA
	height float64
	opts   Options
}

func (c *canvas) mask(b model.BBox) {
	r := b.FlipY(c.height)
	s := c.opts.Scale
	rect := image.Rect(
		int(math.Floor(r.X*s)), int(math.Floor(r.Y*s)),
		int(math.Ceil((r.X+r.Width)*s)), int(math.Ceil((r.Y+r.Height)*s)),
	).Intersect(c.img.Bounds())
	draw.Draw(c.img, rect, image.NewUniform(c.opts.Background), image.Point{}, draw.Src)
}

func (c *canvas) text(run model.GlyphRun) {
	s := c.opts.Scale
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.opts.Foreground),
		Face: c.opts.Face,
		Dot:  fixed.P(int(math.Round(run.X()*s)), int(math.Round((c.height-run.Y())*s))),
	}
	d.DrawString(run.Text)
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Narrower images are returned as is.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := int(math.Round(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx())))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

func px(points, scale float64) int {
	n := int(math.Ceil(points * scale))
	if n < 1 {
		n = 1
	}
	return n
}
