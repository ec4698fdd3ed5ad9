package htmlgen

import (
	"strings"
	"testing"

	"github.com/DPDmancul/latex-songs-to-html/internal/songtex"
)

func emitTestDoc(t *testing.T, opts EmitOptions) string {
	t.Helper()
	doc, err := Assemble(testBook())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	BuildTOC(doc)
	return Emit(doc, opts)
}

func defaultOpts() EmitOptions {
	return EmitOptions{Language: "en", TOCTitle: "Table of contents"}
}

func TestEmit_PageStructure(t *testing.T) {
	page := emitTestDoc(t, defaultOpts())

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>My Songbook</title>",
		"<h1>My Songbook</h1>",
		`<nav id="toc">`,
		"<h2>Table of contents</h2>",
		"</html>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestEmit_LanguageAttribute(t *testing.T) {
	page := emitTestDoc(t, EmitOptions{Language: "it", TOCTitle: "Indice"})
	if !strings.Contains(page, `<html lang="it">`) {
		t.Error("lang attribute not honored")
	}
	if !strings.Contains(page, "<h2>Indice</h2>") {
		t.Error("TOC title not honored")
	}
}

func TestEmit_EmptyDocument(t *testing.T) {
	doc, err := Assemble(&songtex.Book{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	BuildTOC(doc)
	page := Emit(doc, defaultOpts())

	if !strings.Contains(page, "<title>Songbook</title>") {
		t.Error("empty book must fall back to the default title")
	}
	if !strings.Contains(page, `<nav id="toc">`) {
		t.Error("empty book still gets a TOC section")
	}
	if !strings.HasPrefix(page, "<!DOCTYPE html>") || !strings.HasSuffix(page, "</html>\n") {
		t.Error("page is not a complete document")
	}
}

func TestEmit_Deterministic(t *testing.T) {
	a := emitTestDoc(t, defaultOpts())
	b := emitTestDoc(t, defaultOpts())
	if a != b {
		t.Error("identical input must yield byte-identical output")
	}
}

func TestEmit_TOCStructure(t *testing.T) {
	page := emitTestDoc(t, defaultOpts())

	if !strings.Contains(page, `<li value="1"><a href="#first-song">First Song</a>`) {
		t.Error("song 1 TOC entry missing or malformed")
	}
	if !strings.Contains(page, "<br><em>Someone</em>") {
		t.Error("author missing from TOC entry")
	}
	if !strings.Contains(page, `<a href="#sec-part-two">Part Two</a>`) {
		t.Error("section TOC entry missing")
	}
	// The subtitle <br> flattens to a space inside the TOC.
	if !strings.Contains(page, `<a href="#second-song-a-subtitle">Second Song (a subtitle)</a>`) {
		t.Error("subtitle TOC entry missing or not flattened")
	}
}

func TestEmit_SongHeader(t *testing.T) {
	page := emitTestDoc(t, defaultOpts())

	if !strings.Contains(page, `<strong class="song-number">1</strong>`) {
		t.Error("song number missing")
	}
	if !strings.Contains(page, `<h3 id="first-song" class="song-title"><span class="hidden">1. </span>First Song</h3>`) {
		t.Error("song title heading missing")
	}
	if !strings.Contains(page, `<p class="song-author">Someone</p>`) {
		t.Error("song author missing")
	}
}

func TestEmit_SectionLabelLayout(t *testing.T) {
	page := emitTestDoc(t, defaultOpts())

	if !strings.Contains(page, ".section-label{height: calc(100vh / 1);}") {
		t.Error("section label height rule missing")
	}
	if !strings.Contains(page, `<section id="sec-part-two">`) {
		t.Error("section element missing")
	}
}

func chordLine(chord string, shift int) songtex.Line {
	c, _ := songtex.ParseChord(chord)
	return songtex.Line{
		Chords: []songtex.ChordCell{{}, {Chord: c, Shift: shift}},
		Lyrics: []string{"", "la"},
	}
}

func chordBook(line songtex.Line) *songtex.Book {
	v := songtex.NewVerse(false, true, true)
	v.Lines = append(v.Lines, line)
	return &songtex.Book{Sections: []songtex.Section{
		{Songs: []*songtex.Song{{Title: "S", Number: 1, Blocks: []songtex.Block{{Verse: v}}}}},
	}}
}

func emitChordBook(t *testing.T, line songtex.Line, opts EmitOptions) string {
	t.Helper()
	doc, err := Assemble(chordBook(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	BuildTOC(doc)
	return Emit(doc, opts)
}

func TestEmit_Chords(t *testing.T) {
	t.Run("rendered in Italian notation", func(t *testing.T) {
		page := emitChordBook(t, chordLine("C", 0), defaultOpts())
		if !strings.Contains(page, "<td>Do</td>") {
			t.Errorf("chord row missing:\n%s", page)
		}
	})

	t.Run("global transpose applied on top of scoped shift", func(t *testing.T) {
		opts := defaultOpts()
		opts.Transpose = 1
		page := emitChordBook(t, chordLine("C", 1), opts)
		if !strings.Contains(page, "<td>Re</td>") {
			t.Error("expected Do shifted by 2 semitones to Re")
		}
	})

	t.Run("suppressed by NoChords", func(t *testing.T) {
		opts := defaultOpts()
		opts.NoChords = true
		page := emitChordBook(t, chordLine("C", 0), opts)
		if strings.Contains(page, "Do") {
			t.Error("chords must not be rendered with NoChords")
		}
	})
}

func TestEmit_ChorusInBold(t *testing.T) {
	page := emitTestDoc(t, defaultOpts())
	if !strings.Contains(page, "<td><strong>refrain</strong></td>") {
		t.Error("chorus lyrics must be wrapped in strong")
	}
}

func TestEmit_SkipRow(t *testing.T) {
	v := songtex.NewVerse(false, true, true)
	v.Lines = append(v.Lines, songtex.Line{Skip: "bigskip"})
	book := &songtex.Book{Sections: []songtex.Section{
		{Songs: []*songtex.Song{{Title: "S", Number: 1, Blocks: []songtex.Block{{Verse: v}}}}},
	}}
	doc, err := Assemble(book)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	BuildTOC(doc)
	page := Emit(doc, defaultOpts())

	if !strings.Contains(page, `<td class="bigskip">&nbsp;</td>`) {
		t.Error("skip row missing")
	}
}

func TestEmit_VerseNumberColumn(t *testing.T) {
	page := emitChordBook(t, chordLine("C", 0), defaultOpts())
	if !strings.Contains(page, `<td class="verse-num-col">1.</td>`) {
		t.Error("verse number column missing")
	}
}

func TestEmit_Preface(t *testing.T) {
	opts := defaultOpts()
	opts.Preface = "<p>welcome</p>"
	page := emitTestDoc(t, opts)
	if !strings.Contains(page, "<section class=\"preface\">\n<p>welcome</p>") {
		t.Error("preface section missing")
	}
}

func TestEmit_CSS(t *testing.T) {
	t.Run("embedded in style element", func(t *testing.T) {
		opts := defaultOpts()
		opts.CSS = "body { color: red; }"
		page := emitTestDoc(t, opts)
		if !strings.Contains(page, "<style>\nbody { color: red; }</style>") {
			t.Error("stylesheet missing")
		}
	})

	t.Run("closing tags neutralized", func(t *testing.T) {
		opts := defaultOpts()
		opts.CSS = "</style><script>x</script>"
		page := emitTestDoc(t, opts)
		if strings.Contains(page, "</style><script>") {
			t.Error("CSS could escape the style element")
		}
	})

	t.Run("omitted when empty", func(t *testing.T) {
		doc, err := Assemble(&songtex.Book{})
		if err != nil {
			t.Fatal(err)
		}
		BuildTOC(doc)
		page := Emit(doc, defaultOpts())
		if strings.Contains(page, "<style>\n</style>") {
			t.Error("empty style element emitted")
		}
	})
}
