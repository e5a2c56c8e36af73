// Command palimpsest extracts, edits and patches the text of PDF documents.
//
// Usage:
//
//	palimpsest extract [-lines] <pdf>
//	palimpsest edit -text <file> -o <out.pdf> <pdf>
//	palimpsest replace [-keep] -o <out.pdf> <pdf> <target> <replacement>
//	palimpsest outline <pdf>
//	palimpsest html <pdf>
//	palimpsest preview [-page n] [-scale s] [-width px] -o <out.png> <pdf>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/palimpsest"
	"github.com/tsawler/palimpsest/format"
	"github.com/tsawler/palimpsest/layout"
	"github.com/tsawler/palimpsest/markup"
	"github.com/tsawler/palimpsest/ocr"
	"github.com/tsawler/palimpsest/patch"
	"github.com/tsawler/palimpsest/preview"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"extract", "extract [-lines] <pdf>", runExtract},
	{"edit", "edit -text <file> -o <out.pdf> <pdf>", runEdit},
	{"replace", "replace [-keep] -o <out.pdf> <pdf> <target> <replacement>", runReplace},
	{"outline", "outline <pdf>", runOutline},
	{"html", "html <pdf>", runHTML},
	{"preview", "preview [-page n] [-scale s] [-width px] -o <out.png> <pdf>", runPreview},
}

// env carries what every command shares
type env struct {
	log    *logrus.Logger
	stdout io.Writer
	flags  *flag.FlagSet
	ocr    bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "palimpsest: %v\n", err)
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: palimpsest <command> [flags] <args>")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  palimpsest %s\n", c.usage)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}

		fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.Usage = func() {
			fmt.Fprintf(stderr, "Usage: palimpsest %s\n", c.usage)
			fs.PrintDefaults()
		}

		e := &env{log: logrus.New(), stdout: stdout, flags: fs}
		e.log.SetOutput(stderr)
		e.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		e.log.SetLevel(logrus.InfoLevel)

		return c.run(ctx, e, args[1:])
	}

	usage(stderr)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// parse registers the shared flags, parses args, and checks the positional
// argument count
func (e *env) parse(args []string, positional int) error {
	verbose := e.flags.Bool("v", false, "Log debug output")
	e.flags.BoolVar(&e.ocr, "ocr", false, "Recognize text on pages without a text layer")
	if err := e.flags.Parse(args); err != nil {
		return err
	}
	if *verbose {
		e.log.SetLevel(logrus.DebugLevel)
	}
	if e.flags.NArg() != positional {
		e.flags.Usage()
		return fmt.Errorf("%w: expected %d arguments, got %d", errUsage, positional, e.flags.NArg())
	}
	return nil
}

// open loads the PDF named by the first positional argument
func (e *env) open(opts ...palimpsest.Option) (*palimpsest.Session, func(), error) {
	opts = append([]palimpsest.Option{palimpsest.WithLogger(e.log)}, opts...)
	closer := func() {}

	if e.ocr {
		client, err := ocr.New()
		if err != nil {
			e.log.WithError(err).Warn("OCR unavailable")
		} else {
			opts = append(opts, palimpsest.WithOCR(client))
			closer = func() { closeLogged(e.log, "OCR client", client) }
		}
	}

	s, warnings, err := palimpsest.Open(e.flags.Arg(0), opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	for _, w := range warnings {
		e.log.Warn(w.String())
	}
	return s, closer, nil
}

// closeLogged closes c, logging a failure since there is nothing left to
// return it to
func closeLogged(log *logrus.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.WithError(err).Warnf("failed to close %s", what)
	}
}

func runExtract(ctx context.Context, e *env, args []string) error {
	lines := e.flags.Bool("lines", false, "Print clustered lines with their baselines")
	if err := e.parse(args, 1); err != nil {
		return err
	}

	s, closer, err := e.open()
	if err != nil {
		return err
	}
	defer closer()

	if !*lines {
		_, err := io.WriteString(e.stdout, s.Text())
		return err
	}

	doc := s.Current()
	c := layout.NewClusterer()
	for n := 1; n <= doc.PageCount(); n++ {
		runs, err := doc.Runs(ctx, n)
		if err != nil {
			return err
		}
		for _, line := range c.Lines(runs) {
			fmt.Fprintf(e.stdout, "%d\t%.1f\t%.1f\t%s\n", n, line.Baseline, line.FontSize, line.Text())
		}
	}
	return nil
}

func runEdit(_ context.Context, e *env, args []string) error {
	textFile := e.flags.String("text", "", "File with the edited text (.txt, .md or .html)")
	out := e.flags.String("o", "", "Output PDF")
	if err := e.parse(args, 1); err != nil {
		return err
	}
	if *textFile == "" || *out == "" {
		e.flags.Usage()
		return fmt.Errorf("%w: -text and -o are required", errUsage)
	}

	edited, err := readEditedText(*textFile)
	if err != nil {
		return err
	}

	s, closer, err := e.open()
	if err != nil {
		return err
	}
	defer closer()

	if err := s.ApplyTextEdit(edited); err != nil {
		return err
	}
	return export(s, *out)
}

// readEditedText reads text for an edit, converting rich-editor HTML to the
// editable marker convention
func readEditedText(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read edited text: %w", err)
	}

	switch format.DetectFile(filename, data) {
	case format.HTML:
		return markup.FromHTMLString(string(data))
	case format.PDF:
		return "", fmt.Errorf("%s is a PDF, not edited text", filename)
	default:
		return string(data), nil
	}
}

func runReplace(ctx context.Context, e *env, args []string) error {
	keep := e.flags.Bool("keep", false, "Redraw the whole run with the phrase substituted")
	out := e.flags.String("o", "", "Output PDF")
	if err := e.parse(args, 3); err != nil {
		return err
	}
	if *out == "" {
		e.flags.Usage()
		return fmt.Errorf("%w: -o is required", errUsage)
	}

	cfg := patch.DefaultConfig()
	cfg.KeepRunText = *keep

	s, closer, err := e.open(palimpsest.WithPatchConfig(cfg))
	if err != nil {
		return err
	}
	defer closer()

	if err := s.ApplyPhraseReplace(ctx, e.flags.Arg(1), e.flags.Arg(2)); err != nil {
		return err
	}
	return export(s, *out)
}

func runOutline(_ context.Context, e *env, args []string) error {
	if err := e.parse(args, 1); err != nil {
		return err
	}

	s, closer, err := e.open()
	if err != nil {
		return err
	}
	defer closer()

	for _, h := range markup.Outline(s.Text()) {
		fmt.Fprintf(e.stdout, "%4d  %s%s\n", h.Line, strings.Repeat("  ", h.Level-1), h.Text)
	}
	return nil
}

func runHTML(_ context.Context, e *env, args []string) error {
	if err := e.parse(args, 1); err != nil {
		return err
	}

	s, closer, err := e.open()
	if err != nil {
		return err
	}
	defer closer()

	html, err := markup.ToHTML(s.Text())
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, html)
	return err
}

func runPreview(ctx context.Context, e *env, args []string) error {
	page := e.flags.Int("page", 1, "Page to render")
	scale := e.flags.Float64("scale", 1, "Pixels per point")
	width := e.flags.Int("width", 0, "Scale the image down to this width (0 keeps it)")
	out := e.flags.String("o", "", "Output PNG")
	if err := e.parse(args, 1); err != nil {
		return err
	}
	if *out == "" {
		e.flags.Usage()
		return fmt.Errorf("%w: -o is required", errUsage)
	}

	s, closer, err := e.open()
	if err != nil {
		return err
	}
	defer closer()

	opts := preview.DefaultOptions()
	opts.Scale = *scale
	img, err := preview.Page(ctx, s.Current(), *page, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := preview.EncodePNG(f, preview.Thumbnail(img, *width)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func export(s *palimpsest.Session, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := s.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
