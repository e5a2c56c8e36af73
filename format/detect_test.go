package format

import (
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{HTML, "HTML"},
		{Markdown, "Markdown"},
		{Text, "Text"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{HTML, ".html"},
		{Markdown, ".md"},
		{Text, ".txt"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.pdf", PDF},
		{"document.PDF", PDF},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"notes.md", Markdown},
		{"notes.markdown", Markdown},
		{"notes.txt", Text},
		{"/path/to/file.pdf", PDF},
		{"document.docx", Unknown},
		{"noextension", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Detect(tt.filename); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7\n..."), PDF},
		{"pdf after junk", []byte("\x00\x00junk%PDF-1.4"), PDF},
		{"html doctype", []byte("<!DOCTYPE html><html></html>"), HTML},
		{"html lowercase", []byte("  \n<html><body>x</body></html>"), HTML},
		{"xhtml", []byte(`<?xml version="1.0"?><html xmlns="x"></html>`), HTML},
		{"plain text", []byte("# Title\nSome words"), Text},
		{"zip", []byte("PK\x03\x04\x00\x00"), Unknown},
		{"binary", []byte{0xff, 0xfe, 0x00, 0x01}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Format
	}{
		{"markdown by extension", "edit.md", []byte("# Heading"), Markdown},
		{"html content wins", "edit.txt", []byte("<html></html>"), HTML},
		{"pdf content wins", "misnamed.txt", []byte("%PDF-1.4"), PDF},
		{"pdf name without header", "fake.pdf", []byte("plain"), Text},
		{"unknown extension text", "edit", []byte("words"), Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFile(tt.filename, tt.data); got != tt.want {
				t.Errorf("DetectFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsText(t *testing.T) {
	if PDF.IsText() || Unknown.IsText() {
		t.Error("PDF and Unknown are not text formats")
	}
	if !HTML.IsText() || !Markdown.IsText() || !Text.IsText() {
		t.Error("HTML, Markdown and Text are text formats")
	}
}
