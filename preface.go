package songbook

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// goldmarkPreface renders the preface Markdown to an HTML fragment
// using goldmark (pure Go).
type goldmarkPreface struct {
	md goldmark.Markdown
}

// newGoldmarkPreface creates a goldmarkPreface with GFM extensions and
// syntax highlighting.
func newGoldmarkPreface() *goldmarkPreface {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes for external stylesheet control
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
		),
	)
	return &goldmarkPreface{md: md}
}

// Render converts the preface Markdown to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (p *goldmarkPreface) Render(ctx context.Context, markdown string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := p.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPrefaceRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
