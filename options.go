package palimpsest

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/palimpsest/layout"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/ocr"
	"github.com/tsawler/palimpsest/patch"
	"github.com/tsawler/palimpsest/reader"
	"github.com/tsawler/palimpsest/render"
	"github.com/tsawler/palimpsest/writer"
)

// options holds session and loading configuration
type options struct {
	log      logrus.FieldLogger
	cluster  layout.ClusterConfig
	render   render.Config
	patch    patch.Config
	writer   writer.Config
	reader   reader.Config
	timeout  time.Duration
	fallback model.GlyphSource
	ocr      ocr.Recognizer
}

// Option configures a Session or a load
type Option func(*options)

func defaultOptions() options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return options{
		log:     discard,
		cluster: layout.DefaultClusterConfig(),
		render:  render.DefaultConfig(),
		patch:   patch.DefaultConfig(),
		writer:  writer.DefaultConfig(),
		reader:  reader.DefaultConfig(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClusterConfig sets the line clusterer configuration
func WithClusterConfig(cfg layout.ClusterConfig) Option {
	return func(o *options) {
		o.cluster = cfg
	}
}

// WithRenderConfig sets the overlay renderer configuration
func WithRenderConfig(cfg render.Config) Option {
	return func(o *options) {
		o.render = cfg
	}
}

// WithPatchConfig sets the phrase patcher configuration
func WithPatchConfig(cfg patch.Config) Option {
	return func(o *options) {
		o.patch = cfg
	}
}

// WithWriterConfig sets how Export serializes documents
func WithWriterConfig(cfg writer.Config) Option {
	return func(o *options) {
		o.writer = cfg
	}
}

// WithReaderConfig sets how containers are read by Open and Load
func WithReaderConfig(cfg reader.Config) Option {
	return func(o *options) {
		o.reader = cfg
	}
}

// WithSourceTimeout bounds every glyph source call made for a loaded
// document. Zero disables the bound.
func WithSourceTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithFallbackSource sets a glyph source consulted for pages on which the
// container's text layer fails or yields nothing.
func WithFallbackSource(src model.GlyphSource) Option {
	return func(o *options) {
		o.fallback = src
	}
}

// WithOCR recognizes the page images of pages without a text layer.
// It is ignored when WithFallbackSource is also given.
func WithOCR(rec ocr.Recognizer) Option {
	return func(o *options) {
		o.ocr = rec
	}
}
