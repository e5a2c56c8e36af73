package palimpsest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/palimpsest/layout"
	"github.com/tsawler/palimpsest/model"
	"github.com/tsawler/palimpsest/patch"
	"github.com/tsawler/palimpsest/render"
	"github.com/tsawler/palimpsest/writer"
)

// ErrNoDocument is returned by edits made before a document is loaded
var ErrNoDocument = errors.New("no document loaded")

// Session holds one loaded document and the edits made to it. Edits are
// serialized; a Session is safe for concurrent use.
type Session struct {
	mu  sync.Mutex
	log logrus.FieldLogger

	clusterer *layout.Clusterer
	renderer  *render.Renderer
	patcher   *patch.Patcher
	writer    *writer.Writer

	original     *model.Document
	current      *model.Document
	originalText string
	text         string
	dirty        bool
}

// NewSession creates an empty session
func NewSession(opts ...Option) *Session {
	return newSession(buildOptions(opts))
}

func newSession(o options) *Session {
	return &Session{
		log:       o.log,
		clusterer: layout.NewClustererWithConfig(o.cluster),
		renderer:  render.NewRendererWithConfig(o.render),
		patcher:   patch.NewPatcherWithConfig(o.patch),
		writer:    writer.NewWriter(o.writer),
	}
}

// LoadOriginal replaces all session state with doc and extracts its
// editable text. When the glyph source fails the text is empty and the
// failure is returned as a warning, not an error.
func (s *Session) LoadOriginal(ctx context.Context, doc *model.Document) ([]Warning, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.WithField("pages", doc.PageCount())

	var warnings []Warning
	txt, err := s.clusterer.Extract(ctx, doc)
	if err != nil {
		w := Warning{Message: "text extraction failed, starting from empty text", Err: err}
		var ee *model.ExtractionError
		if errors.As(err, &ee) {
			w.Page = ee.Page
		}
		warnings = append(warnings, w)
		log.WithError(err).Warn("text extraction failed")
		txt = ""
	}

	s.original = doc
	s.current = doc
	s.originalText = txt
	s.text = txt
	s.dirty = false

	log.WithField("chars", len(txt)).Info("document loaded")
	return warnings, nil
}

// ApplyTextEdit re-renders the original document's pages with newText. On
// failure the session is left unchanged and the *render.RenderError is
// returned.
func (s *Session) ApplyTextEdit(newText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return ErrNoDocument
	}

	res, err := s.renderer.RenderResult(s.original, newText)
	if err != nil {
		s.log.WithError(err).Warn("text edit failed")
		return err
	}

	s.current = res.Document
	s.text = newText
	s.dirty = true

	s.log.WithFields(logrus.Fields{
		"lines":    res.Lines,
		"drawn":    res.Drawn,
		"dropped":  res.Dropped(),
		"capacity": res.Capacity,
	}).Debug("text edit applied")
	return nil
}

// ApplyPhraseReplace patches the first occurrence of target in the current
// document. A missing phrase returns a *patch.NotFoundError and an empty
// replacement returns patch.ErrEmptyReplacement; either leaves the session
// unchanged.
func (s *Session) ApplyPhraseReplace(ctx context.Context, target, replacement string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoDocument
	}
	if replacement == "" {
		return patch.ErrEmptyReplacement
	}

	m, err := s.patcher.Locate(ctx, s.current, target)
	if err != nil {
		if errors.Is(err, patch.ErrNotFound) {
			s.log.WithField("target", target).Info("phrase not found")
		} else {
			s.log.WithError(err).Warn("phrase replace failed")
		}
		return err
	}

	s.current = s.patcher.Apply(s.current, m, target, replacement)
	s.dirty = true

	s.log.WithFields(logrus.Fields{
		"page": m.PageNumber,
		"run":  m.RunIndex,
	}).Debug("phrase replaced")
	return nil
}

// Reset discards every edit; the current document is the original again
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.original
	s.text = s.originalText
	s.dirty = false
	s.log.Debug("session reset")
}

// Export writes the current document as PDF
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	doc := s.current
	s.mu.Unlock()

	if doc == nil {
		return ErrNoDocument
	}
	if err := s.writer.Write(w, doc); err != nil {
		return fmt.Errorf("failed to export document: %w", err)
	}
	return nil
}

// CurrentText extracts the editable text of the current document as it
// would read now, edits included.
func (s *Session) CurrentText(ctx context.Context) (string, error) {
	s.mu.Lock()
	doc := s.current
	s.mu.Unlock()

	if doc == nil {
		return "", ErrNoDocument
	}
	return s.clusterer.Extract(ctx, doc)
}

// Text returns the editable text last loaded or applied
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// OriginalText returns the text extracted when the document was loaded
func (s *Session) OriginalText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.originalText
}

// Current returns the current document
func (s *Session) Current() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Original returns the document as loaded
func (s *Session) Original() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Dirty reports whether the current document differs from the original
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
