package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML converts the HTML of a rich-text editor into editable content:
// headings become '#' lines, strong/b and em/i become '**' and '*' spans,
// list items become "- " lines, and block elements end a line.
func FromHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}

	c := &converter{}
	c.traverse(body)
	return c.String(), nil
}

// FromHTMLString is FromHTML over a string
func FromHTMLString(s string) (string, error) {
	return FromHTML(strings.NewReader(s))
}

// converter accumulates lines of editable content
type converter struct {
	lines []string
	cur   strings.Builder
}

// breakLine ends the current line if it has content
func (c *converter) breakLine() {
	line := strings.TrimSpace(collapseSpace(c.cur.String()))
	if line != "" {
		c.lines = append(c.lines, line)
	}
	c.cur.Reset()
}

func (c *converter) String() string {
	c.breakLine()
	return strings.Join(c.lines, "\n")
}

// traverse recursively processes DOM nodes.
func (c *converter) traverse(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.cur.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		c.children(n)
		return
	}

	if shouldSkipElement(n.Data) {
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.breakLine()
		level := int(n.Data[1] - '0')
		c.cur.WriteString(strings.Repeat("#", level) + " ")
		c.children(n)
		c.breakLine()

	case "strong", "b":
		c.wrap(n, "**")

	case "em", "i":
		c.wrap(n, "*")

	case "br":
		c.breakLine()

	case "li":
		c.breakLine()
		c.cur.WriteString("- ")
		c.children(n)
		c.breakLine()

	case "p", "div", "ul", "ol", "blockquote", "pre", "tr", "section", "article", "header", "footer":
		c.breakLine()
		c.children(n)
		c.breakLine()

	case "td", "th":
		c.children(n)
		c.cur.WriteString(" ")

	default:
		c.children(n)
	}
}

func (c *converter) children(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.traverse(child)
	}
}

// wrap emits the node's inline content between a pair of markers. Empty
// spans produce nothing.
func (c *converter) wrap(n *html.Node, marker string) {
	inner := &converter{}
	inner.children(n)
	content := strings.TrimSpace(inner.String())
	if content == "" {
		return
	}
	// Block content inside an inline span is flattened onto one line
	content = strings.ReplaceAll(content, "\n", " ")
	c.cur.WriteString(marker + content + marker)
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "head":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// collapseSpace replaces runs of whitespace with a single space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
