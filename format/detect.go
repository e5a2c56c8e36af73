// Package format detects the kind of file handed to palimpsest: the PDF
// containers it edits and the text formats an edit can be supplied in.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents a recognized input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF container.
	PDF
	// HTML indicates an HTML document.
	HTML
	// Markdown indicates Markdown text.
	Markdown
	// Text indicates plain UTF-8 text.
	Text
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case HTML:
		return "HTML"
	case Markdown:
		return "Markdown"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case HTML:
		return ".html"
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return ""
	}
}

// IsText reports whether the format carries edited text rather than a
// container.
func (f Format) IsText() bool {
	return f == HTML || f == Markdown || f == Text
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".html", ".htm":
		return HTML
	case ".md", ".markdown":
		return Markdown
	case ".txt", ".text":
		return Text
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. Markdown cannot
// be told apart from plain text this way and is reported as Text.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Unknown
	}

	// PDF magic: %PDF, possibly after a little junk
	window := data
	if len(window) > 1024 {
		window = window[:1024]
	}
	if bytes.Contains(window, []byte("%PDF-")) {
		return PDF
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
		// Don't reject a sample that cuts a multi-byte rune in half
		for i := 0; i < utf8.UTFMax && !utf8.Valid(sample); i++ {
			sample = sample[:len(sample)-1]
		}
	}
	if utf8.Valid(sample) && !bytes.ContainsRune(sample, 0) {
		return Text
	}

	return Unknown
}

// DetectFile combines extension and content detection. Content wins when
// it identifies a PDF or HTML; otherwise the extension decides.
func DetectFile(filename string, data []byte) Format {
	magic := DetectFromMagic(data)
	if magic == PDF || magic == HTML {
		return magic
	}
	if ext := Detect(filename); ext != Unknown && ext != PDF {
		return ext
	}
	return magic
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	upper := strings.ToUpper(string(head))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}

	return false
}
