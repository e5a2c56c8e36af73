package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading line of editable content
type Heading struct {
	Level int    // number of '#' characters
	Text  string // heading text without markers
	Line  int    // 1-indexed line of the content it starts on
}

func newMarkdown() goldmark.Markdown {
	// Every source line is a drawn line, so keep single newlines as breaks
	return goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps()))
}

// ToHTML renders editable content as an HTML fragment for a preview pane.
// Unpaired emphasis markers are left as literal characters.
func ToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markup: %w", err)
	}
	return buf.String(), nil
}

// Outline lists the headings of editable content in order
func Outline(content string) []Heading {
	src := []byte(content)
	doc := newMarkdown().Parser().Parse(text.NewReader(src))

	var headings []Heading
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		h, ok := child.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}

		start := h.Lines().At(0).Start
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(string(h.Text(src))),
			Line:  bytes.Count(src[:start], []byte("\n")) + 1,
		})
	}

	return headings
}
