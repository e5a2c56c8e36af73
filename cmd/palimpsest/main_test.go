package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// writePDF renders a one-page resume into dir and returns its path
func writePDF(t *testing.T, dir string) string {
	t.Helper()

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(72, 92, "Jane Doe")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(72, 130, "Engineer at Acme")

	path := filepath.Join(dir, "resume.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"missing argument", []string{"extract"}},
		{"edit without output", []string{"edit", "-text", "x.txt", "in.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); !errors.Is(err, errUsage) {
				t.Errorf("expected errUsage, got %v", err)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	path := writePDF(t, t.TempDir())

	out, err := runCLI(t, "extract", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "Jane Doe") || !strings.Contains(out, "Engineer at Acme") {
		t.Errorf("extract output = %q", out)
	}

	out, err = runCLI(t, "extract", "-lines", path)
	if err != nil {
		t.Fatalf("extract -lines: %v", err)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected 2 lines, got %d: %q", got, out)
	}
}

func TestOutlineAndHTML(t *testing.T) {
	path := writePDF(t, t.TempDir())

	out, err := runCLI(t, "outline", path)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	// The name is bigger than the line after it, so the second line reads
	// as plain text and the first starts the page without a marker
	if strings.TrimSpace(out) != "" {
		t.Errorf("outline output = %q, want none", out)
	}

	out, err = runCLI(t, "html", path)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(out, "Jane Doe") {
		t.Errorf("html output = %q", out)
	}
}

func TestEdit(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir)

	edited := filepath.Join(dir, "edited.html")
	if err := os.WriteFile(edited, []byte("<h1>Jane Doe</h1><p>Staff <b>Engineer</b></p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.pdf")

	if _, err := runCLI(t, "edit", "-text", edited, "-o", out, path); err != nil {
		t.Fatalf("edit: %v", err)
	}

	text, err := runCLI(t, "extract", out)
	if err != nil {
		t.Fatalf("extract edited: %v", err)
	}
	if !strings.Contains(text, "Staff **Engineer**") {
		t.Errorf("edited text = %q", text)
	}
}

func TestReplace(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir)
	out := filepath.Join(dir, "out.pdf")

	if _, err := runCLI(t, "replace", "-o", out, path, "Acme", "Globex"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("replace should write a PDF")
	}

	text, err := runCLI(t, "extract", out)
	if err != nil {
		t.Fatalf("extract patched: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Globex") {
		t.Errorf("patched text = %q, want the untouched name and the replacement", text)
	}

	_, err = runCLI(t, "replace", "-o", out, path, "Initech", "Globex")
	if err == nil || errors.Is(err, errUsage) {
		t.Errorf("expected a not found error, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir)
	out := filepath.Join(dir, "page.png")

	if _, err := runCLI(t, "preview", "-width", "200", "-o", out, path); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("preview should write a PNG")
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseLogged(t *testing.T) {
	log, hook := test.NewNullLogger()

	closeLogged(log, "OCR client", closerFunc(func() error { return nil }))
	if len(hook.Entries) != 0 {
		t.Fatalf("clean close should not log, got %d entries", len(hook.Entries))
	}

	cause := errors.New("tesseract went away")
	closeLogged(log, "OCR client", closerFunc(func() error { return cause }))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("failed close should be logged")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", entry.Level)
	}
	if entry.Message != "failed to close OCR client" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Data[logrus.ErrorKey] != cause {
		t.Errorf("error field = %v, want %v", entry.Data[logrus.ErrorKey], cause)
	}
}
