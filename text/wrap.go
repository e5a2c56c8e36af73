package text

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tsawler/palimpsest/model"
)

// ErrSourceTimeout is returned when a glyph source does not answer in time
var ErrSourceTimeout = errors.New("glyph source timed out")

// WithTimeout bounds every Runs call on src to d. Sources that ignore their
// context are abandoned when the deadline passes. A non-positive d returns
// src unchanged.
func WithTimeout(src model.GlyphSource, d time.Duration) model.GlyphSource {
	if d <= 0 {
		return src
	}
	return &timeoutSource{src: src, d: d}
}

type timeoutSource struct {
	src model.GlyphSource
	d   time.Duration
}

type runsResult struct {
	runs []model.GlyphRun
	err  error
}

func (t *timeoutSource) Runs(ctx context.Context, page int) ([]model.GlyphRun, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	ch := make(chan runsResult, 1)
	go func() {
		runs, err := t.src.Runs(ctx, page)
		ch <- runsResult{runs: runs, err: err}
	}()

	select {
	case res := <-ch:
		return res.runs, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &model.ExtractionError{
				Page: page,
				Err:  fmt.Errorf("%w after %s", ErrSourceTimeout, t.d),
			}
		}
		return nil, ctx.Err()
	}
}

// FallbackSource answers from Primary, and asks Secondary for pages where
// Primary fails or yields no runs. It is how scanned pages get an OCR
// text layer.
type FallbackSource struct {
	Primary   model.GlyphSource
	Secondary model.GlyphSource
}

// Runs implements model.GlyphSource
func (f FallbackSource) Runs(ctx context.Context, page int) ([]model.GlyphRun, error) {
	runs, err := f.Primary.Runs(ctx, page)
	if err == nil && len(runs) > 0 {
		return runs, nil
	}
	if f.Secondary == nil || ctx.Err() != nil {
		return runs, err
	}

	fallback, ferr := f.Secondary.Runs(ctx, page)
	if ferr != nil {
		if err != nil {
			return nil, errors.Join(err, ferr)
		}
		// Primary answered with an empty page; keep that answer
		return runs, nil
	}
	return fallback, nil
}
