package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/tsawler/palimpsest/model"
)

// ErrEmptyDocument is returned when asked to write a document with no pages
var ErrEmptyDocument = errors.New("document has no pages")

// Config controls PDF output
type Config struct {
	// Compress enables stream compression
	Compress bool

	// CreationDate is stamped into the document info. The zero value uses
	// the time of writing.
	CreationDate time.Time

	// Producer is written as the document producer
	Producer string
}

// DefaultConfig returns the default writer configuration
func DefaultConfig() Config {
	return Config{
		Compress: true,
		Producer: "palimpsest",
	}
}

// Writer writes documents as PDF
type Writer struct {
	config Config
}

// NewWriter creates a writer with the given configuration
func NewWriter(config Config) *Writer {
	return &Writer{config: config}
}

// Write serializes doc to w with the default configuration
func Write(w io.Writer, doc *model.Document) error {
	return NewWriter(DefaultConfig()).Write(w, doc)
}

// Bytes serializes doc with the default configuration
func Bytes(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes doc to out. A pristine document is written as the exact
// bytes it was loaded from. A document whose pages still line up with its
// source has the drawn operations appended to each source page's content.
// Anything else is rebuilt page by page, with source pages imported as
// templates beneath the drawn operations.
func (wr *Writer) Write(out io.Writer, doc *model.Document) error {
	if doc.PageCount() == 0 {
		return ErrEmptyDocument
	}

	if doc.Pristine() {
		if _, err := out.Write(doc.Raw()); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	}

	var (
		data []byte
		err  error
	)
	if inPlace(doc) {
		data, err = wr.overlay(doc)
	} else {
		data, err = wr.compose(doc)
	}
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (wr *Writer) compose(doc *model.Document) (data []byte, err error) {
	// gofpdi panics on sources it cannot parse
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("failed to compose document: %v", r)
		}
	}()

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(wr.config.Compress)
	if !wr.config.CreationDate.IsZero() {
		pdf.SetCreationDate(wr.config.CreationDate)
		pdf.SetModificationDate(wr.config.CreationDate)
	}
	wr.setInfo(pdf, doc.Metadata)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	var (
		importer  *gofpdi.Importer
		rs        io.ReadSeeker
		templates = map[int]int{}
	)

	for _, page := range doc.Pages() {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})

		if page.Base() > 0 && !page.SourceHidden() && doc.Raw() != nil {
			if importer == nil {
				importer = gofpdi.NewImporter()
				rs = io.ReadSeeker(bytes.NewReader(doc.Raw()))
			}
			tpl, ok := templates[page.Base()]
			if !ok {
				tpl = importer.ImportPageFromStream(pdf, &rs, page.Base(), "/MediaBox")
				templates[page.Base()] = tpl
			}
			importer.UseImportedTemplate(pdf, tpl, 0, 0, page.Width, page.Height)
		}

		for _, op := range page.Ops() {
			drawOp(pdf, tr, page.Height, op)
		}

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to draw page %d: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to compose document: %w", err)
	}
	return buf.Bytes(), nil
}

func (wr *Writer) setInfo(pdf *fpdf.Fpdf, meta model.Metadata) {
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	if wr.config.Producer != "" {
		pdf.SetProducer(wr.config.Producer, true)
	}
}

// drawOp draws one operation. Operations are in PDF space (bottom-left
// origin); fpdf draws from the top-left, so Y is flipped against the page
// height.
func drawOp(pdf *fpdf.Fpdf, tr func(string) string, pageHeight float64, op model.Op) {
	switch op.Kind {
	case model.OpMask:
		r := op.Rect.FlipY(pageHeight)
		pdf.SetFillColor(255, 255, 255)
		pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")

	case model.OpText:
		run := op.Run
		if run.Text == "" {
			return
		}
		family, style := coreFont(run.FontName)
		pdf.SetFont(family, style, run.FontSize())
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(run.X(), pageHeight-run.Y(), tr(run.Text))
	}
}
