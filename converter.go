package songbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/DPDmancul/latex-songs-to-html/internal/htmlgen"
	"github.com/DPDmancul/latex-songs-to-html/internal/songtex"
)

// bookLoader abstracts songbook loading to enable testing without files.
type bookLoader interface {
	Load(ctx context.Context, path string) (*songtex.Book, error)
}

// prefaceRenderer abstracts Markdown rendering of the preface.
type prefaceRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ bookLoader      = (*fileBookLoader)(nil)
	_ prefaceRenderer = (*goldmarkPreface)(nil)
	_ pdfConverter    = (*rodConverter)(nil)
)

// Converter orchestrates the songbook-to-HTML pipeline.
// Create with New(), use Convert(), and Close() when done.
type Converter struct {
	cfg     converterConfig
	loader  bookLoader
	preface prefaceRenderer
	pdf     pdfConverter
}

// New creates a Converter with default configuration.
// Use options to customize behavior (e.g. WithTimeout).
func New(opts ...Option) *Converter {
	c := &Converter{
		cfg:     converterConfig{timeout: defaultTimeout},
		loader:  &fileBookLoader{},
		preface: newGoldmarkPreface(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create the PDF converter if not injected (e.g. by tests).
	if c.pdf == nil {
		c.pdf = newRodConverter(c.cfg.timeout)
	}

	return c
}

// Convert runs the full pipeline and returns the rendered page.
// The context is used for cancellation.
func (c *Converter) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.withDefaults()

	book, err := c.loader.Load(ctx, input.SourcePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := htmlgen.Assemble(book)
	if err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}
	htmlgen.BuildTOC(doc)

	prefaceHTML := ""
	if input.Preface != "" {
		prefaceHTML, err = c.preface.Render(ctx, input.Preface)
		if err != nil {
			return nil, fmt.Errorf("rendering preface: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := htmlgen.Emit(doc, htmlgen.EmitOptions{
		Language:  input.Language,
		TOCTitle:  input.TOCTitle,
		Transpose: input.Transpose,
		NoChords:  input.NoChords,
		CSS:       input.CSS,
		Preface:   prefaceHTML,
	})

	return &Result{HTML: page}, nil
}

// RenderPDF renders a generated HTML page to PDF using headless Chrome.
func (c *Converter) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return c.pdf.ToPDF(ctx, html)
}

// Close releases resources (the headless Chrome browser, if started).
func (c *Converter) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}

// fileBookLoader loads the songbook from the filesystem.
type fileBookLoader struct{}

// Load reads and parses the book, wrapping I/O failures in ErrReadSource.
// Parse errors pass through untouched so their position context survives.
func (l *fileBookLoader) Load(ctx context.Context, path string) (*songtex.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	book, err := songtex.LoadBook(path)
	if err != nil {
		if isParseError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	return book, nil
}

func isParseError(err error) bool {
	return errors.Is(err, ErrUnsupportedMacro) ||
		errors.Is(err, ErrMalformedSong) ||
		errors.Is(err, ErrInvalidChord)
}
