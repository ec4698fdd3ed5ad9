// Package htmlgen assembles a parsed songbook into an ordered document node
// sequence, derives the table of contents from its headings, and serializes
// the result to a single HTML page.
//
// Source order is preserved end to end: node order equals source order, the
// TOC lists headings in node order, and the emitter renders nodes in order.
package htmlgen

import (
	"fmt"
	"strconv"

	"github.com/DPDmancul/latex-songs-to-html/internal/songtex"
)

// Node is one ordered piece of the assembled document.
type Node interface{ node() }

// Heading introduces a section (level 2) or a song (level 3). Anchor is
// assigned by the TOC builder.
type Heading struct {
	Level      int
	HTML       string // heading text, already HTML
	Plain      string // plain text, the slug source
	Anchor     string
	Number     int    // song number, 0 for sections
	AuthorHTML string // song author, already HTML
}

// Paragraph is a standalone text block, e.g. a song note.
type Paragraph struct {
	HTML  string
	Class string
}

// VerseBlock is a regular verse. Label is the running verse number ("3.")
// shown in the number column; NumberCol reports whether the column exists at
// all (indented verses keep it even when unnumbered).
type VerseBlock struct {
	Verse     *songtex.Verse
	Label     string
	NumberCol bool
}

// ChorusBlock is a chorus: unnumbered, marked with the chorus style.
type ChorusBlock struct {
	Verse *songtex.Verse
}

// RawHTML is a pre-rendered fragment inserted verbatim.
type RawHTML struct {
	HTML string
}

func (*Heading) node()     {}
func (*Paragraph) node()   {}
func (*VerseBlock) node()  {}
func (*ChorusBlock) node() {}
func (*RawHTML) node()     {}

// Document is the assembled songbook, ready for TOC building and emission.
type Document struct {
	Title     string // plain book title
	TitleHTML string
	Nodes     []Node
	TOC       []TOCEntry
	Sections  int // named sections, for the sticky label layout
}

// Assemble folds a parsed book into a Document node sequence.
func Assemble(book *songtex.Book) (*Document, error) {
	doc := &Document{}

	var err error
	doc.Title, err = songtex.Detex(book.Title, songtex.FormatPlain)
	if err != nil {
		return nil, fmt.Errorf("book title: %w", err)
	}
	doc.TitleHTML, err = songtex.Detex(book.Title, songtex.FormatHTML)
	if err != nil {
		return nil, fmt.Errorf("book title: %w", err)
	}

	for _, sec := range book.Sections {
		if len(sec.Songs) == 0 {
			continue
		}
		if sec.Name != "" {
			h, err := headingFor(sec.Name, 2)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", sec.Name, err)
			}
			doc.Nodes = append(doc.Nodes, h)
			doc.Sections++
		}
		for _, song := range sec.Songs {
			if err := assembleSong(doc, song); err != nil {
				return nil, fmt.Errorf("song #%d: %w", song.Number, err)
			}
		}
	}
	return doc, nil
}

func headingFor(text string, level int) (*Heading, error) {
	plain, err := songtex.Detex(text, songtex.FormatPlain)
	if err != nil {
		return nil, err
	}
	html, err := songtex.Detex(text, songtex.FormatHTML)
	if err != nil {
		return nil, err
	}
	return &Heading{Level: level, HTML: html, Plain: plain}, nil
}

func assembleSong(doc *Document, song *songtex.Song) error {
	h, err := headingFor(song.Title, 3)
	if err != nil {
		return err
	}
	if song.Subtitle != "" {
		subHTML, err := songtex.Detex(song.Subtitle, songtex.FormatHTML)
		if err != nil {
			return err
		}
		subPlain, err := songtex.Detex(song.Subtitle, songtex.FormatPlain)
		if err != nil {
			return err
		}
		h.HTML += "<br>(" + subHTML + ")"
		h.Plain += " (" + subPlain + ")"
	}
	h.Number = song.Number
	if song.Author != "" {
		h.AuthorHTML, err = songtex.Detex(song.Author, songtex.FormatHTML)
		if err != nil {
			return err
		}
	}
	doc.Nodes = append(doc.Nodes, h)

	verseNum := 0
	for _, block := range song.Blocks {
		if block.Note != "" {
			doc.Nodes = append(doc.Nodes, &Paragraph{HTML: block.Note, Class: "note"})
			continue
		}
		v := block.Verse
		if v == nil {
			continue
		}
		if v.Chorus {
			doc.Nodes = append(doc.Nodes, &ChorusBlock{Verse: v})
			continue
		}
		label := ""
		if v.Numbered {
			verseNum++
			label = strconv.Itoa(verseNum) + "."
		}
		doc.Nodes = append(doc.Nodes, &VerseBlock{Verse: v, Label: label, NumberCol: v.Indent})
	}
	return nil
}
