package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/text"
)

// ErrNotPDF is returned when the data does not start with a PDF header
var ErrNotPDF = errors.New("not a PDF file")

// headerWindow is how far into the file the %PDF- marker may appear
const headerWindow = 1024

var versionPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

var disableConfigDir sync.Once

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Config controls how a container is read
type Config struct {
	// Run controls how glyphs are merged into runs
	Run text.RunConfig

	// Strict enables pdfcpu's strict validation mode
	Strict bool
}

// DefaultConfig returns the default reader configuration
func DefaultConfig() Config {
	return Config{
		Run: text.DefaultRunConfig(),
	}
}

// Reader reads a PDF container: page geometry through pdfcpu and the text
// layer through a text.PDFSource.
type Reader struct {
	data     []byte
	version  PDFVersion
	geometry []model.Size
	source   *text.PDFSource
	info     model.Metadata
	images   imageIndex
}

// NewReader validates data as a PDF container and prepares it for reading
func NewReader(data []byte, cfg Config) (*Reader, error) {
	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	geometry, err := readGeometry(data, cfg.Strict)
	if err != nil {
		return nil, err
	}

	src, err := text.NewPDFSource(data, cfg.Run)
	if err != nil {
		return nil, err
	}

	return &Reader{
		data:     data,
		version:  version,
		geometry: geometry,
		source:   src,
		info:     src.Info(),
	}, nil
}

// Open reads and validates a PDF file
func Open(filename string, cfg Config) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewReader(data, cfg)
}

// parseHeader parses the PDF header (%PDF-x.y)
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}

	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, ErrNotPDF
	}

	matches := versionPattern.FindSubmatch(window[idx:])
	if len(matches) < 3 {
		return PDFVersion{}, fmt.Errorf("invalid version format: %q", window[idx:min(idx+8, len(window))])
	}

	major, _ := strconv.Atoi(string(matches[1]))
	minor, _ := strconv.Atoi(string(matches[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// readGeometry validates the container and returns each page's effective
// size in points.
func readGeometry(data []byte, strict bool) (sizes []model.Size, err error) {
	disableConfigDir.Do(api.DisableConfigDir)

	defer func() {
		if r := recover(); r != nil {
			sizes, err = nil, fmt.Errorf("failed to read page tree: %v", r)
		}
	}()

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	if strict {
		conf.ValidationMode = pdfmodel.ValidationStrict
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate container: %w", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page sizes: %w", err)
	}

	sizes = make([]model.Size, len(dims))
	for i, d := range dims {
		sizes[i] = model.Size{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Version returns the PDF version from the header
func (r *Reader) Version() PDFVersion {
	return r.version
}

// PageCount returns the number of pages
func (r *Reader) PageCount() int {
	return len(r.geometry)
}

// Geometry returns every page's size in order
func (r *Reader) Geometry() []model.Size {
	out := make([]model.Size, len(r.geometry))
	copy(out, r.geometry)
	return out
}

// Info returns the document information dictionary
func (r *Reader) Info() model.Metadata {
	return r.info
}

// Source returns the text layer of the container
func (r *Reader) Source() *text.PDFSource {
	return r.source
}

// Bytes returns the container bytes
func (r *Reader) Bytes() []byte {
	return r.data
}

// Document builds a pristine document over the container. src is the
// glyph source the document reads from; nil uses the container's own text
// layer.
func (r *Reader) Document(src model.GlyphSource) *model.Document {
	if src == nil {
		src = r.source
	}

	pages := make([]*model.Page, len(r.geometry))
	for i, size := range r.geometry {
		pages[i] = model.NewPage(i+1, size, i+1)
	}

	doc := model.NewDocument(r.data, src, pages)
	doc.Metadata = r.info
	return doc
}
