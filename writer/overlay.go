package writer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/palimpsest/model"
)

// overlayFontPrefix names the font resources added for drawn text
const overlayFontPrefix = "PLF"

var disableConfigDir sync.Once

// inPlace reports whether doc still maps page for page onto its source, so
// drawn operations can be appended to the source pages' own content.
func inPlace(doc *model.Document) bool {
	if doc.Raw() == nil {
		return false
	}
	kept := false
	for i, page := range doc.Pages() {
		if page.Base() != i+1 {
			return false
		}
		if !page.SourceHidden() {
			kept = true
		}
	}
	return kept
}

// overlay rewrites the source container, replacing the content of every
// page that has drawn operations with its original content followed by
// the drawn operations. Text on untouched parts of the page stays in the
// page's own content stream.
func (wr *Writer) overlay(doc *model.Document) (data []byte, err error) {
	disableConfigDir.Do(api.DisableConfigDir)

	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("failed to overlay document: %v", r)
		}
	}()

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	ctx, err := api.ReadContext(bytes.NewReader(doc.Raw()), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate source: %w", err)
	}
	if ctx.PageCount != doc.PageCount() {
		return nil, fmt.Errorf("source has %d pages, document has %d", ctx.PageCount, doc.PageCount())
	}

	for _, page := range doc.Pages() {
		if len(page.Ops()) == 0 {
			continue
		}
		if err := overlayPage(ctx, page, wr.config.Compress); err != nil {
			return nil, fmt.Errorf("failed to draw page %d: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}

func overlayPage(ctx *pdfmodel.Context, page *model.Page, compress bool) error {
	pageDict, _, _, err := ctx.PageDict(page.Base(), false)
	if err != nil {
		return err
	}
	if pageDict == nil {
		return fmt.Errorf("source page %d not found", page.Base())
	}

	fonts, err := fontResources(ctx, pageDict)
	if err != nil {
		return err
	}

	var content bytes.Buffer
	if !page.SourceHidden() {
		orig, err := ctx.PageContent(pageDict)
		if err != nil && !errors.Is(err, pdfmodel.ErrNoContent) {
			return err
		}
		if len(orig) > 0 {
			content.WriteString("q\n")
			content.Write(orig)
			content.WriteString("\nQ\n")
		}
	}

	names := map[string]string{}
	for _, op := range page.Ops() {
		switch op.Kind {
		case model.OpMask:
			r := op.Rect
			fmt.Fprintf(&content, "q 1 g %s %s %s %s re f Q\n",
				num(r.X), num(r.Y), num(r.Width), num(r.Height))

		case model.OpText:
			run := op.Run
			if run.Text == "" {
				continue
			}
			base := baseFontName(run.FontName)
			res, ok := names[base]
			if !ok {
				if res, err = addCoreFont(ctx, fonts, base, run.FontName); err != nil {
					return err
				}
				names[base] = res
			}
			fmt.Fprintf(&content, "BT /%s %s Tf 0 g 1 0 0 1 %s %s Tm %s Tj ET\n",
				res, num(run.FontSize()), num(run.X()), num(run.Y()), literal(run.Text))
		}
	}

	sd, err := ctx.NewStreamDictForBuf(content.Bytes())
	if err != nil {
		return err
	}
	if !compress {
		sd.FilterPipeline = nil
		sd.Delete("Filter")
	}
	if err := sd.Encode(); err != nil {
		return err
	}
	ir, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return err
	}
	pageDict["Contents"] = *ir
	return nil
}

// fontResources returns the page's font resource dict, creating it when
// missing. Inherited resources are copied onto the page first so the
// existing content keeps resolving its names.
func fontResources(ctx *pdfmodel.Context, pageDict types.Dict) (types.Dict, error) {
	res, err := pageResources(ctx, pageDict)
	if err != nil {
		return nil, err
	}

	if o, ok := res.Find("Font"); ok {
		fonts, err := ctx.DereferenceDict(o)
		if err != nil {
			return nil, err
		}
		if fonts != nil {
			return fonts, nil
		}
	}
	fonts := types.NewDict()
	res["Font"] = fonts
	return fonts, nil
}

func pageResources(ctx *pdfmodel.Context, pageDict types.Dict) (types.Dict, error) {
	for d, own := pageDict, true; d != nil; own = false {
		if o, ok := d.Find("Resources"); ok {
			res, err := ctx.DereferenceDict(o)
			if err != nil {
				return nil, err
			}
			if res != nil {
				if own {
					return res, nil
				}
				inherited := types.NewDict()
				for k, v := range res {
					inherited[k] = v
				}
				pageDict["Resources"] = inherited
				return inherited, nil
			}
		}

		parent, ok := d.Find("Parent")
		if !ok {
			break
		}
		next, err := ctx.DereferenceDict(parent)
		if err != nil {
			return nil, err
		}
		d = next
	}

	res := types.NewDict()
	pageDict["Resources"] = res
	return res, nil
}

// addCoreFont registers a standard Type 1 font under a free resource name
func addCoreFont(ctx *pdfmodel.Context, fonts types.Dict, base, fontName string) (string, error) {
	name := ""
	for i := 1; ; i++ {
		name = overlayFontPrefix + strconv.Itoa(i)
		if _, taken := fonts[name]; !taken {
			break
		}
	}

	d := types.NewDict()
	d.InsertName("Type", "Font")
	d.InsertName("Subtype", "Type1")
	d.InsertName("BaseFont", base)
	if base != "Symbol" && base != "ZapfDingbats" {
		d.InsertName("Encoding", "WinAnsiEncoding")
	}
	d.InsertInt("FirstChar", firstChar)
	d.InsertInt("LastChar", lastChar)
	d["Widths"] = glyphWidths(fontName)

	ir, err := ctx.IndRefForNewObject(d)
	if err != nil {
		return "", err
	}
	fonts[name] = *ir
	return name, nil
}

// baseFontName maps a font name to the standard 14 font drawn in its place
func baseFontName(fontName string) string {
	family, style := coreFont(fontName)
	switch family {
	case "Symbol", "ZapfDingbats":
		return family
	case "Times":
		switch style {
		case "B":
			return "Times-Bold"
		case "I":
			return "Times-Italic"
		case "BI":
			return "Times-BoldItalic"
		}
		return "Times-Roman"
	}
	switch style {
	case "B":
		return family + "-Bold"
	case "I":
		return family + "-Oblique"
	case "BI":
		return family + "-BoldOblique"
	}
	return family
}

const (
	firstChar = 32
	lastChar  = 255
)

var widthCache sync.Map

// glyphWidths returns the WinAnsi advance widths, in thousandths of a unit,
// for codes firstChar through lastChar.
func glyphWidths(fontName string) types.Array {
	base := baseFontName(fontName)
	if cached, ok := widthCache.Load(base); ok {
		return append(types.Array(nil), cached.(types.Array)...)
	}

	widths := make(types.Array, 0, lastChar-firstChar+1)
	for c := firstChar; c <= lastChar; c++ {
		r := charmap.Windows1252.DecodeByte(byte(c))
		w := StringWidth(base, 1000, string(r))
		widths = append(widths, types.Integer(int(math.Round(w))))
	}
	widthCache.Store(base, widths)
	return append(types.Array(nil), widths...)
}

// literal encodes s as a WinAnsi PDF string literal. Runes outside
// WinAnsi become '?'.
func literal(s string) string {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
