package writer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/reader"
)

// makeSourcePDF renders a one-page Letter PDF with two lines of text
func makeSourcePDF(t *testing.T) []byte {
	t.Helper()

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(72, 92, "Keep this line")
	pdf.Text(72, 400, "Original phrase")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	return buf.Bytes()
}

func runText(t *testing.T, data []byte, page int) string {
	t.Helper()

	r, err := reader.NewReader(data, reader.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	runs, err := r.Document(nil).Runs(context.Background(), page)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}

	var parts []string
	for _, run := range runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "|")
}

func textRun(s string, x, y float64) model.GlyphRun {
	return model.GlyphRun{
		Text:         s,
		Transform:    model.TextMatrix(12, x, y),
		Width:        StringWidth("Helvetica", 12, s),
		Height:       12,
		FontName:     "Helvetica",
		FontSizeHint: 12,
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	doc := model.NewDocument(nil, nil, nil)
	if _, err := Bytes(doc); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestWritePristinePassThrough(t *testing.T) {
	data := makeSourcePDF(t)
	r, err := reader.NewReader(data, reader.DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}

	out, err := Bytes(r.Document(nil))
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("pristine document should be written byte for byte")
	}
}

func TestWriteBlankPages(t *testing.T) {
	page := model.NewPage(1, model.Size{Width: 300, Height: 400}, 0).Draw(
		model.MaskOp(model.NewBBox(0, 0, 300, 400)),
		model.TextOp(textRun("Fresh text", 50, 350)),
	)
	doc := model.NewDocument(nil, nil, []*model.Page{page})
	doc.Metadata.Title = "Rendered"

	out, err := Bytes(doc)
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}

	r, err := reader.NewReader(out, reader.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	geo := r.Geometry()
	if len(geo) != 1 || geo[0].Width != 300 || geo[0].Height != 400 {
		t.Errorf("geometry = %+v", geo)
	}
	if got := runText(t, out, 1); !strings.Contains(got, "Fresh text") {
		t.Errorf("runs = %q, want Fresh text", got)
	}
}

func TestWriteOverlaysSourcePage(t *testing.T) {
	data := makeSourcePDF(t)
	r, err := reader.NewReader(data, reader.DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	doc := r.Document(nil)
	page := doc.Page(1)
	patched := doc.WithPage(1, page.Draw(
		model.MaskOp(model.NewBBox(72, 390, 100, 14)),
		model.TextOp(textRun("New phrase", 72, 392)),
	))

	out, err := Bytes(patched)
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if bytes.Equal(out, data) {
		t.Fatal("patched document should not be written as the original bytes")
	}

	got := runText(t, out, 1)
	if !strings.Contains(got, "New phrase") {
		t.Errorf("drawn text missing: %q", got)
	}
	if !strings.Contains(got, "Keep this line") {
		t.Errorf("untouched source text missing: %q", got)
	}
	if bytes.Contains(out, []byte("/Form")) {
		t.Error("source page should keep its own content instead of a form XObject")
	}
}

// makeTwoPagePDF renders a two-page Letter PDF with one line per page
func makeTwoPagePDF(t *testing.T) []byte {
	t.Helper()

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(72, 92, "First page")
	pdf.AddPage()
	pdf.Text(72, 92, "Page two line")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	return buf.Bytes()
}

func TestWriteOverlayKeepsOtherPages(t *testing.T) {
	r, err := reader.NewReader(makeTwoPagePDF(t), reader.DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	doc := r.Document(nil)
	patched := doc.WithPage(1, doc.Page(1).Draw(
		model.TextOp(textRun("Added (note)", 72, 600)),
	))

	cfg := DefaultConfig()
	cfg.Compress = false
	var out bytes.Buffer
	if err := NewWriter(cfg).Write(&out, patched); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if got := runText(t, out.Bytes(), 1); !strings.Contains(got, "First page") || !strings.Contains(got, "Added (note)") {
		t.Errorf("page 1 runs = %q", got)
	}
	if got := runText(t, out.Bytes(), 2); !strings.Contains(got, "Page two line") {
		t.Errorf("page 2 runs = %q", got)
	}
}

func TestWriteOverlayHiddenPage(t *testing.T) {
	r, err := reader.NewReader(makeTwoPagePDF(t), reader.DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	doc := r.Document(nil)
	page := doc.Page(1)
	patched := doc.WithPage(1, page.Draw(
		model.MaskOp(page.Bounds()),
		model.TextOp(textRun("Only this", 72, 700)),
	))
	if !inPlace(patched) {
		t.Fatal("page 2 still shows its source, so the document should be patched in place")
	}

	out, err := Bytes(patched)
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	got := runText(t, out, 1)
	if !strings.Contains(got, "Only this") || strings.Contains(got, "First page") {
		t.Errorf("page 1 runs = %q, want only the drawn text", got)
	}
	if got := runText(t, out, 2); !strings.Contains(got, "Page two line") {
		t.Errorf("page 2 runs = %q", got)
	}
}

func TestWriteReusesImportedTemplate(t *testing.T) {
	data := makeSourcePDF(t)
	r, err := reader.NewReader(data, reader.DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	doc := r.Document(nil)
	page := doc.Page(1)

	// Two output pages over the same source page can not be patched in place
	dup := doc.WithPages([]*model.Page{
		page.Draw(model.TextOp(textRun("Copy one", 72, 600))),
		model.NewPage(2, page.Size(), 1).Draw(model.TextOp(textRun("Copy two", 72, 600))),
	})
	if inPlace(dup) {
		t.Fatal("duplicated source page should not be written in place")
	}

	cfg := DefaultConfig()
	cfg.Compress = false
	var out bytes.Buffer
	if err := NewWriter(cfg).Write(&out, dup); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n := bytes.Count(out.Bytes(), []byte("/Subtype /Form")); n != 1 {
		t.Errorf("imported %d form templates, want 1", n)
	}

	check, err := reader.NewReader(out.Bytes(), reader.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if check.PageCount() != 2 {
		t.Errorf("page count = %d, want 2", check.PageCount())
	}
}

func TestInPlace(t *testing.T) {
	size := model.Size{Width: 612, Height: 792}
	tests := []struct {
		name  string
		raw   []byte
		pages []*model.Page
		want  bool
	}{
		{"no source bytes", nil, []*model.Page{model.NewPage(1, size, 1)}, false},
		{"aligned", []byte("%PDF-"), []*model.Page{model.NewPage(1, size, 1), model.NewPage(2, size, 2)}, true},
		{"reordered", []byte("%PDF-"), []*model.Page{model.NewPage(1, size, 2), model.NewPage(2, size, 1)}, false},
		{"blank page", []byte("%PDF-"), []*model.Page{model.NewPage(1, size, 0)}, false},
		{"all hidden", []byte("%PDF-"), []*model.Page{
			model.NewPage(1, size, 1).Draw(model.MaskOp(model.NewBBox(0, 0, 612, 792))),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.NewDocument(tt.raw, nil, tt.pages)
			if got := inPlace(doc); got != tt.want {
				t.Errorf("inPlace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "(plain)"},
		{"a (b) c", `(a \(b\) c)`},
		{`back\slash`, `(back\\slash)`},
		{"café", `(caf\351)`},
		{"€5", `(\2005)`},
		{"snow ☃", "(snow ?)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := literal(tt.in); got != tt.want {
				t.Errorf("literal(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestBaseFontName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Helvetica", "Helvetica"},
		{"ABCDEF+Arial-BoldMT", "Helvetica-Bold"},
		{"Helvetica-BoldOblique", "Helvetica-BoldOblique"},
		{"TimesNewRomanPS-ItalicMT", "Times-Italic"},
		{"Times", "Times-Roman"},
		{"Courier-Oblique", "Courier-Oblique"},
		{"ZapfDingbats", "ZapfDingbats"},
		{"Calibri", "Helvetica"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseFontName(tt.name); got != tt.want {
				t.Errorf("baseFontName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestGlyphWidths(t *testing.T) {
	widths := glyphWidths("Helvetica")
	if len(widths) != lastChar-firstChar+1 {
		t.Fatalf("len = %d, want %d", len(widths), lastChar-firstChar+1)
	}
	// Helvetica's space is 278 units and its capital W is 944
	if widths[' '-firstChar] != types.Integer(278) {
		t.Errorf("space width = %v, want 278", widths[' '-firstChar])
	}
	if widths['W'-firstChar] != types.Integer(944) {
		t.Errorf("W width = %v, want 944", widths['W'-firstChar])
	}
}

func TestWriteDeterministicWithCreationDate(t *testing.T) {
	page := model.NewPage(1, model.Size{Width: 612, Height: 792}, 0).Draw(
		model.TextOp(textRun("Same", 50, 700)),
	)
	doc := model.NewDocument(nil, nil, []*model.Page{page})

	cfg := DefaultConfig()
	cfg.CreationDate = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	w := NewWriter(cfg)

	var a, b bytes.Buffer
	if err := w.Write(&a, doc); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(&b, doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("output should be deterministic with a fixed creation date")
	}
}

func TestCoreFont(t *testing.T) {
	tests := []struct {
		name   string
		family string
		style  string
	}{
		{"Helvetica", "Helvetica", ""},
		{"Helvetica-Bold", "Helvetica", "B"},
		{"Helvetica-BoldOblique", "Helvetica", "BI"},
		{"Times-Roman", "Times", ""},
		{"Times-BoldItalic", "Times", "BI"},
		{"ABCDEF+ArialMT", "Helvetica", ""},
		{"TimesNewRomanPS-ItalicMT", "Times", "I"},
		{"Courier", "Courier", ""},
		{"ABCDEF+Calibri-Bold", "Helvetica", "B"},
		{"Symbol", "Symbol", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, style := coreFont(tt.name)
			if family != tt.family || style != tt.style {
				t.Errorf("coreFont(%q) = (%q, %q), want (%q, %q)",
					tt.name, family, style, tt.family, tt.style)
			}
		})
	}
}

func TestIsCoreFont(t *testing.T) {
	if !IsCoreFont("Helvetica") || !IsCoreFont("Courier-Bold") {
		t.Error("expected core fonts")
	}
	if IsCoreFont("Comic Sans") {
		t.Error("Comic Sans is not a core font")
	}
}

func TestStringWidth(t *testing.T) {
	w := StringWidth("Helvetica", 12, "Hello")
	if w <= 0 {
		t.Fatalf("StringWidth() = %v, want > 0", w)
	}
	if double := StringWidth("Helvetica", 24, "Hello"); double < w*1.99 || double > w*2.01 {
		t.Errorf("width should scale with size: %v vs %v", w, double)
	}
	if StringWidth("Helvetica", 12, "") != 0 {
		t.Error("empty string should have zero width")
	}
}
