package htmlgen

import (
	"fmt"
	"html"
	"strings"

	"github.com/DPDmancul/latex-songs-to-html/internal/songtex"
)

// EmitOptions configures HTML serialization.
type EmitOptions struct {
	Language  string // lang attribute, e.g. "en"
	TOCTitle  string // heading of the generated TOC
	Transpose int    // global semitone shift applied to every chord
	NoChords  bool   // suppress chord rows entirely
	CSS       string // stylesheet embedded in <head>; empty = none
	Preface   string // HTML fragment inserted after the book heading
}

// fallbackTitle is used when the book has no section heading at all.
const fallbackTitle = "Songbook"

// Emit serializes the assembled document into a complete HTML page.
// Output is deterministic: identical input yields byte-identical output.
func Emit(doc *Document, opts EmitOptions) string {
	title := doc.Title
	titleHTML := doc.TitleHTML
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
		titleHTML = fallbackTitle
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=%q>\n", opts.Language)
	b.WriteString("<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	if opts.CSS != "" {
		b.WriteString("<style>\n")
		b.WriteString(sanitizeCSS(opts.CSS))
		b.WriteString("</style>\n")
	}
	if doc.Sections > 0 {
		// The sticky section labels split the viewport evenly.
		fmt.Fprintf(&b, "<style>.section-label{height: calc(100vh / %d);}</style>\n", doc.Sections)
	}
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s</h1>\n", titleHTML)
	fmt.Fprintf(&b, "<p><a href=\"#toc\">%s</a></p>\n", html.EscapeString(opts.TOCTitle))
	if opts.Preface != "" {
		b.WriteString("<section class=\"preface\">\n")
		b.WriteString(opts.Preface)
		b.WriteString("</section>\n")
	}

	e := emitter{b: &b, opts: opts, sections: doc.Sections}
	for _, n := range doc.Nodes {
		e.node(n)
	}
	e.closeAll()

	emitTOC(&b, doc.TOC, opts.TOCTitle)

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// emitter tracks open section and article elements while walking the flat
// node sequence.
type emitter struct {
	b          *strings.Builder
	opts       EmitOptions
	sections   int
	sectionIdx int
	inSection  bool
	inArticle  bool
}

func (e *emitter) node(n Node) {
	switch n := n.(type) {
	case *Heading:
		switch n.Level {
		case 2:
			e.closeAll()
			e.openSection(n)
		case 3:
			e.closeArticle()
			if !e.inSection {
				e.b.WriteString("<section>\n")
				e.inSection = true
			}
			e.openArticle(n)
		}
	case *Paragraph:
		if n.Class != "" {
			fmt.Fprintf(e.b, "<p class=%q>%s</p>\n", n.Class, n.HTML)
		} else {
			fmt.Fprintf(e.b, "<p>%s</p>\n", n.HTML)
		}
	case *VerseBlock:
		e.verse(n.Verse, n.Label, n.NumberCol, false)
	case *ChorusBlock:
		e.verse(n.Verse, "", false, true)
	case *RawHTML:
		e.b.WriteString(n.HTML)
		e.b.WriteByte('\n')
	}
}

func (e *emitter) openSection(h *Heading) {
	fmt.Fprintf(e.b, "<section id=\"sec-%s\">\n", h.Anchor)
	top := 0.0
	if e.sections > 0 {
		top = float64(e.sectionIdx) * 100 / float64(e.sections)
	}
	fmt.Fprintf(e.b, "<h2 class=\"section-label\" id=%q style=\"top: %.4gvh\">%s</h2>\n", h.Anchor, top, h.HTML)
	e.sectionIdx++
	e.inSection = true
}

func (e *emitter) openArticle(h *Heading) {
	e.b.WriteString("<article class=\"song\">\n<header class=\"song-header\">\n")
	fmt.Fprintf(e.b, "<strong class=\"song-number\">%d</strong>\n", h.Number)
	e.b.WriteString("<div class=\"song-info\">\n")
	fmt.Fprintf(e.b, "<h3 id=%q class=\"song-title\"><span class=\"hidden\">%d. </span>%s</h3>\n", h.Anchor, h.Number, h.HTML)
	if h.AuthorHTML != "" {
		fmt.Fprintf(e.b, "<p class=\"song-author\">%s</p>\n", h.AuthorHTML)
	}
	e.b.WriteString("</div>\n</header>\n")
	e.inArticle = true
}

func (e *emitter) closeArticle() {
	if e.inArticle {
		e.b.WriteString("</article>\n")
		e.inArticle = false
	}
}

func (e *emitter) closeAll() {
	e.closeArticle()
	if e.inSection {
		e.b.WriteString("</section>\n")
		e.inSection = false
	}
}

func (e *emitter) verse(v *songtex.Verse, label string, numberCol bool, chorus bool) {
	cls := "verse"
	if chorus {
		cls = "verse chorus"
	}
	fmt.Fprintf(e.b, "<div class=%q>\n", cls)

	// The number column label shows on the first rendered row only.
	first := label
	hasCol := numberCol
	for i := range v.Lines {
		line := &v.Lines[i]
		if line.Skip != "" {
			fmt.Fprintf(e.b, "<table><tr><td class=%q>&nbsp;</td></tr></table>\n", line.Skip)
			continue
		}

		chords := line.HasChords() && !e.opts.NoChords
		lyrics := line.Lyrics != nil
		if !chords && !lyrics {
			continue
		}

		e.b.WriteString("<table>\n")
		if chords {
			e.b.WriteString("<tr>")
			if hasCol {
				if lyrics {
					e.b.WriteString(`<td class="verse-num-col"></td>`)
				} else {
					fmt.Fprintf(e.b, `<td class="verse-num-col">%s</td>`, first)
				}
			}
			for _, cell := range line.Chords {
				e.b.WriteString("<td>")
				e.b.WriteString(cell.EnvOpen)
				if cell.Chord != nil {
					e.b.WriteString(songtex.ReplaceTextHTML(cell.Chord.Transposed(cell.Shift + e.opts.Transpose)))
				}
				e.b.WriteString(cell.Text)
				e.b.WriteString(cell.EnvClose)
				e.b.WriteString("</td>")
			}
			e.b.WriteString("</tr>\n")
		}
		if lyrics {
			e.b.WriteString("<tr>")
			if hasCol {
				fmt.Fprintf(e.b, `<td class="verse-num-col">%s</td>`, first)
			}
			for _, tok := range line.Lyrics {
				if chorus {
					e.b.WriteString("<td><strong>")
					e.b.WriteString(tok)
					e.b.WriteString("</strong></td>")
				} else {
					e.b.WriteString("<td>")
					e.b.WriteString(tok)
					e.b.WriteString("</td>")
				}
			}
			e.b.WriteString("</tr>\n")
		}
		e.b.WriteString("</table>\n")

		first = ""
	}

	e.b.WriteString("</div>\n")
}

// emitTOC renders the navigation list: sections as list items holding an
// ordered list of their songs. The TOC section is present even when empty.
func emitTOC(b *strings.Builder, entries []TOCEntry, title string) {
	b.WriteString("<nav id=\"toc\">\n")
	fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(title))
	b.WriteString("<ul>\n")

	inSection := false
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ol>\n")
			inList = false
		}
		if inSection {
			b.WriteString("</li>\n")
			inSection = false
		}
	}

	for _, e := range entries {
		switch e.Level {
		case 2:
			closeList()
			fmt.Fprintf(b, "<li><a href=\"#sec-%s\">%s</a>\n<ol>\n", e.Anchor, e.HTML)
			inSection = true
			inList = true
		case 3:
			if !inList {
				b.WriteString("<ol>\n")
				inList = true
			}
			fmt.Fprintf(b, "<li value=\"%d\"><a href=\"#%s\">%s</a>", e.Number, e.Anchor, strings.ReplaceAll(e.HTML, "<br>", " "))
			if e.AuthorHTML != "" {
				fmt.Fprintf(b, "<br><em>%s</em>", e.AuthorHTML)
			}
			b.WriteString("</li>\n")
		}
	}
	closeList()

	b.WriteString("</ul>\n</nav>\n")
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
