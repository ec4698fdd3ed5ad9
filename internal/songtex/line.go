package songtex

import (
	"regexp"
	"strings"
)

// ChordCell is one cell of a line's chord row. Chord may be nil for spacer
// cells; Text carries chord-row text accumulated by \nolyrics scopes and
// chord-only lines, already converted to HTML.
type ChordCell struct {
	Chord    *Chord
	Shift    int // scoped \transpose amount at the time the chord appeared
	Text     string
	EnvOpen  string // span wrap for chord-only lines inside a text span
	EnvClose string
}

// Line is one source line of a verse: a chord row aligned over lyric tokens.
// Lyrics is nil for chord-only lines. Tokens are HTML fragments; alignment is
// positional (Chords[i] sits above Lyrics[i]).
type Line struct {
	Chords []ChordCell
	Lyrics []string
	Skip   string // "smallskip", "medskip" or "bigskip" spacing row
}

// HasChords reports whether any chord cell has content.
func (l *Line) HasChords() bool {
	for _, c := range l.Chords {
		if c.Chord != nil || strings.TrimSpace(c.Text) != "" {
			return true
		}
	}
	return false
}

// lineEvent is one parsed item of a source line, in source order.
type lineEvent struct {
	kind  eventKind
	text  string // text, raw
	chord *Chord // chord
	shift int    // chord
	env   string // spanOpen
	// chord placement relative to the surrounding lyrics: a chord between
	// two spaces (or at line start before a space) floats in its own column.
	floating bool
}

type eventKind int

const (
	evText eventKind = iota // lyric text (or chord-row text under \nolyrics)
	evRaw                   // pre-rendered HTML emitted into the lyric stream
	evChordText             // text routed to the chord row (\nolyrics scope)
	evChord
	evSpanOpen
	evSpanClose
	evRep
)

// leadingTrailingSpace collapses a run of edge spaces into one &nbsp; so the
// browser keeps the alignment.
var leadingTrailingSpace = regexp.MustCompile(`^ +| +$`)

// buildLine folds a line's event stream into aligned chord and lyric columns.
// openSpans is the stack of text spans still open from previous lines; the
// builder reopens them at the start and closes whatever remains open at the
// end, so each rendered line is self-contained HTML.
func buildLine(events []lineEvent, openSpans []string) Line {
	hasText := false
	for _, e := range events {
		if (e.kind == evText || e.kind == evRaw) && strings.TrimSpace(e.text) != "" {
			hasText = true
			break
		}
	}

	b := lineBuilder{chordOnly: !hasText, inside: append([]string(nil), openSpans...)}
	b.start()

	for _, e := range events {
		switch e.kind {
		case evText:
			b.addText(ReplaceTextHTML(e.text))
		case evRaw:
			b.addText(e.text)
		case evChordText:
			b.addChordText(ReplaceTextHTML(e.text))
		case evChord:
			b.addChord(e.chord, e.shift, e.floating)
		case evSpanOpen:
			b.openSpan(e.env)
		case evSpanClose:
			b.closeSpan()
		case evRep:
			b.addRep(e.text)
		}
	}

	b.finish()
	return b.line
}

// lineBuilder mirrors the two sinks of the original format: lyric lines grow
// lyric tokens, chord-only lines grow chord-row cells.
type lineBuilder struct {
	line      Line
	chordOnly bool
	inside    []string // open span macros
	mid       bool     // false right after a rep marker: next text opens a fresh token
}

func (b *lineBuilder) start() {
	b.line.Chords = []ChordCell{{}}
	b.mid = true
	if !b.chordOnly {
		b.line.Lyrics = []string{""}
		for _, env := range b.inside {
			b.addLyrics(spanBegin[env])
		}
	}
}

func (b *lineBuilder) finish() {
	if b.chordOnly {
		return
	}
	// Close spans that stay open into the next line.
	for i := len(b.inside) - 1; i >= 0; i-- {
		b.addLyrics(spanEnd[b.inside[i]])
	}
	for i, tok := range b.line.Lyrics {
		b.line.Lyrics[i] = leadingTrailingSpace.ReplaceAllString(tok, "&nbsp;")
	}
}

// addText appends line text, reopening the current span in a fresh token
// after a rep marker broke the flow.
func (b *lineBuilder) addText(s string) {
	if !b.mid {
		reopen := ""
		if len(b.inside) > 0 {
			reopen = spanBegin[b.inside[len(b.inside)-1]]
		}
		b.newToken(reopen)
		b.mid = true
	}
	b.addLyrics(s)
}

func (b *lineBuilder) addLyrics(s string) {
	if b.chordOnly {
		b.addChordText(s)
		return
	}
	b.line.Lyrics[len(b.line.Lyrics)-1] += s
}

func (b *lineBuilder) addChordText(s string) {
	b.line.Chords[len(b.line.Chords)-1].Text += s
}

func (b *lineBuilder) newToken(s string) {
	if b.chordOnly {
		b.line.Chords = append(b.line.Chords, ChordCell{Text: s})
		return
	}
	b.line.Lyrics = append(b.line.Lyrics, s)
}

func (b *lineBuilder) addChord(c *Chord, shift int, floating bool) {
	cell := ChordCell{Chord: c, Shift: shift}
	if b.chordOnly && len(b.inside) > 0 {
		env := b.inside[len(b.inside)-1]
		cell.EnvOpen, cell.EnvClose = spanBegin[env], spanEnd[env]
	}
	b.line.Chords = append(b.line.Chords, cell)

	if len(b.inside) > 0 {
		b.addLyrics(spanEnd[b.inside[len(b.inside)-1]])
	}
	if floating {
		// A chord between spaces gets its own column so it does not glue to
		// the next word.
		b.newToken("")
		b.line.Chords = append(b.line.Chords, ChordCell{})
	}
	reopen := ""
	if len(b.inside) > 0 {
		reopen = spanBegin[b.inside[len(b.inside)-1]]
	}
	b.newToken(reopen)
	b.mid = true
}

func (b *lineBuilder) openSpan(env string) {
	if !b.mid {
		b.newToken("")
		b.mid = true
	}
	b.inside = append(b.inside, env)
	open := spanBegin[env]
	if env == "echo" {
		open += "("
	}
	b.addLyrics(open)
}

func (b *lineBuilder) closeSpan() {
	if len(b.inside) == 0 {
		return
	}
	if !b.mid {
		b.newToken(spanBegin[b.inside[len(b.inside)-1]])
		b.mid = true
	}
	env := b.inside[len(b.inside)-1]
	b.inside = b.inside[:len(b.inside)-1]
	end := spanEnd[env]
	if env == "echo" {
		end = ")" + end
	}
	b.addLyrics(end)
}

func (b *lineBuilder) addRep(count string) {
	b.newToken(`<span class="rep">(×` + count + `)</span>`)
	b.line.Chords = append(b.line.Chords, ChordCell{})
	b.mid = false
}
