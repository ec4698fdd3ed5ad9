package songtex

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Block is one ordered piece of a song body: a verse/chorus or a note
// paragraph (from \musicnote or \textnote outside any verse). Exactly one
// field is set.
type Block struct {
	Verse *Verse
	Note  string // HTML
}

// Song is one parsed song file.
type Song struct {
	Title    string
	Subtitle string // from \\ inside the \beginsong title
	Author   string
	Number   int
	Capo     int // 0 = no capo
	Blocks   []Block
}

// HasChords reports whether any verse of the song carries chords.
func (s *Song) HasChords() bool {
	for _, b := range s.Blocks {
		if b.Verse != nil && b.Verse.HasChords() {
			return true
		}
	}
	return false
}

// Anchored macro patterns, matched at the scan cursor.
var (
	songBeginRe = regexp.MustCompile(`^\\beginsong *\{((?:[^{}]|\{.*?\})*?)\}(\[.*?\])?`)
	songEndRe   = regexp.MustCompile(`^\\endsong`)
	verseCmdRe  = regexp.MustCompile(`^\\(begin|end)(verse|chorus)(\*?)`)
	chordRe     = regexp.MustCompile(`^\\\[(.+?)\]`)
	transposeRe = regexp.MustCompile(`^\\transpose *\{([-+]?\d+)\}`)
	capoRe      = regexp.MustCompile(`^\\capo\{(\d+)\}`)
	repRe       = regexp.MustCompile(`^\\rep(?:\{([^}]+)\}|(\d))`)
	chordswapRe = regexp.MustCompile(`^\\chords(on|off)`)
	skipRe      = regexp.MustCompile(`^\\((?:small|med|big)skip)`)
	noteRe      = regexp.MustCompile(`^\\(?:music|text)note[ \t]*\{(([^{]|\{.*?\})*?)\}`)
	meterRe     = regexp.MustCompile(`^\\meter(?:\{([^}]+)\}|(\d))(?:\{(\d+)\}|(\d))?`)
	spanCmdRe   = regexp.MustCompile(`^\\(echo|poetry|emph|textit|textbf|underline|alert|textsuperscript|textsubscript|textnormal|textsmall|texttiny)[ \t]*\{`)
	declCmdRe   = regexp.MustCompile(`^\\(small|tiny|itshape|normalfont)\b`)
	nameRe      = regexp.MustCompile(`^\\(\d?\w+)`)
	authorRe    = regexp.MustCompile(`by=\{(.*?)\}`)
	titleSubRe  = regexp.MustCompile(`(.*)\\\\((?:[^{}]|\{.*\})*)`)
	brkRe       = regexp.MustCompile(`\\brk(\{\})?`)
)

// declSpan maps declaration-form macros to their span equivalent.
var declSpan = map[string]string{
	"small":      "textsmall",
	"tiny":       "texttiny",
	"itshape":    "textit",
	"normalfont": "textnormal",
}

// textMacros pass through the parser untouched; Detex and ReplaceTextHTML
// expand them at render time.
var textMacros = map[string]bool{
	"newline": true, "star": true, "ast": true, "dots": true,
	"dimshed": true, "meterCutC": true, "lrep": true, "rrep": true,
	"textbackslash": true,
}

// frameKind tags entries of the parser's group stack.
type frameKind int

const (
	frameScope frameKind = iota // bare { ... } or a verse body
	frameSpan                   // \emph{ ... } and friends
	frameDecl                   // \small, \itshape: closes with the group
)

type frame struct {
	kind      frameKind
	env       string // span/decl macro name
	verse     bool   // scope frame opened by \beginverse
	transpose int
	nolyrics  bool
}

// songParser is the per-file state machine.
type songParser struct {
	file    string
	lineNo  int
	curLine string // the comment-stripped line being scanned, for positions
	song    *Song

	frames      []frame
	verse       *Verse
	verseIndent bool
	globalChord bool
	localChord  bool
	ignore      bool // inside \else ... \fi

	meterNum, meterDen string
	meterPending       bool

	memory      []*Chord
	memorizing  bool
	replayIndex int

	// per-line accumulators
	events    []lineEvent
	text      strings.Builder // plain lyric text of the current line
	pending   strings.Builder // text run not yet flushed into an event
	pendingCh bool            // pending run routed to the chord row
	lastPlain rune
	lineSkip  string
	done      bool
}

// ParseSong reads a single song (the documented one-song-per-file subset)
// and returns its structured form. index becomes the song number.
func ParseSong(r io.Reader, file string, index int) (*Song, error) {
	p := &songParser{
		file:         file,
		song:         &Song{Number: index},
		frames:       []frame{{kind: frameScope}},
		verseIndent:  true,
		globalChord:  true,
		localChord:   true,
		meterNum:     "4",
		meterDen:     "4",
		meterPending: true,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.lineNo++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
		if p.done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	if p.verse != nil {
		return nil, &StructureError{Detail: "unclosed verse or chorus", Pos: Pos{File: file, Line: p.lineNo}}
	}
	return p.song, nil
}

// pos builds a position from a 1-based byte offset into the current line,
// reported as a rune offset so multi-byte lyrics do not shift the column.
func (p *songParser) pos(col int) Pos {
	if col > 0 && col-1 <= len(p.curLine) {
		col = utf8.RuneCountInString(p.curLine[:col-1]) + 1
	}
	return Pos{File: p.file, Line: p.lineNo, Col: col}
}

// scope returns the innermost scope frame.
func (p *songParser) scope() *frame {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if p.frames[i].kind == frameScope {
			return &p.frames[i]
		}
	}
	return &p.frames[0]
}

// openSpans lists the span and declaration environments currently open,
// outermost first.
func (p *songParser) openSpans() []string {
	var envs []string
	for _, f := range p.frames {
		if f.kind == frameSpan || f.kind == frameDecl {
			envs = append(envs, f.env)
		}
	}
	return envs
}

func (p *songParser) pushScope(verse bool) {
	top := *p.scope()
	p.frames = append(p.frames, frame{kind: frameScope, verse: verse, transpose: top.transpose, nolyrics: top.nolyrics})
}

// closeGroup pops frames for a closing brace: declarations opened inside the
// group close first, then the group itself.
func (p *songParser) closeGroup(col int) error {
	for len(p.frames) > 1 && p.frames[len(p.frames)-1].kind == frameDecl {
		p.emit(lineEvent{kind: evSpanClose})
		p.frames = p.frames[:len(p.frames)-1]
	}
	// A verse body is closed by \endverse, never by a bare brace.
	if len(p.frames) <= 1 || p.frames[len(p.frames)-1].verse {
		return &StructureError{Detail: "unmatched closing brace", Pos: p.pos(col)}
	}
	top := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	if top.kind == frameSpan {
		p.emit(lineEvent{kind: evSpanClose})
	}
	return nil
}

// closeVerseFrames unwinds everything opened inside the verse body, the
// verse scope included.
func (p *songParser) closeVerseFrames() {
	for len(p.frames) > 1 {
		top := p.frames[len(p.frames)-1]
		p.frames = p.frames[:len(p.frames)-1]
		if top.kind == frameSpan || top.kind == frameDecl {
			p.emit(lineEvent{kind: evSpanClose})
			continue
		}
		if top.verse {
			return
		}
	}
}

func (p *songParser) flushText() {
	if p.pending.Len() == 0 {
		return
	}
	kind := evText
	if p.pendingCh {
		kind = evChordText
	}
	p.events = append(p.events, lineEvent{kind: kind, text: p.pending.String()})
	p.pending.Reset()
}

func (p *songParser) emit(e lineEvent) {
	p.flushText()
	p.events = append(p.events, e)
}

func (p *songParser) addPlain(r rune) {
	nolyrics := p.scope().nolyrics
	if p.pending.Len() > 0 && p.pendingCh != nolyrics {
		p.flushText()
	}
	p.pendingCh = nolyrics
	p.pending.WriteRune(r)
	if !nolyrics {
		p.text.WriteRune(r)
		p.lastPlain = r
	}
}

func (p *songParser) emitRaw(html string) {
	p.emit(lineEvent{kind: evRaw, text: html})
}

// parseLine scans one comment-stripped source line.
func (p *songParser) parseLine(raw string) error {
	line := brkRe.ReplaceAllString(stripComment(raw), "")
	p.curLine = line

	spansBefore := p.openSpans()
	p.events = p.events[:0]
	p.text.Reset()
	p.pending.Reset()
	p.lastPlain = 0
	p.lineSkip = ""

	col := 0
	for col < len(line) {
		remain := line[col:]

		if p.ignore {
			if strings.HasPrefix(remain, `\fi`) {
				p.ignore = false
				col += len(`\fi`)
				continue
			}
			_, size := utf8.DecodeRuneInString(remain)
			col += size
			continue
		}

		r, size := utf8.DecodeRuneInString(remain)
		switch r {
		case '\\':
			n, err := p.parseMacro(line, col)
			if err != nil {
				return err
			}
			if n == 0 {
				// Escape forms (\%, \#, "\ ", \\) and text macros flow
				// through to the text replacements.
				n = p.consumeTextEscape(remain)
			}
			col += n
			if p.done {
				// \endsong discards the rest of its line.
				return nil
			}
			continue
		case '^':
			if p.replayIndex < len(p.memory) {
				if p.localChord {
					p.emit(lineEvent{
						kind:  evChord,
						chord: p.memory[p.replayIndex],
						shift: p.scope().transpose,
					})
				}
				p.replayIndex++
			}
			col += size
			continue
		case '{':
			p.pushScope(false)
			col += size
			continue
		case '}':
			if err := p.closeGroup(col + 1); err != nil {
				return err
			}
			col += size
			continue
		case '|':
			if p.meterPending {
				p.emitRaw(meterHTML(p.meterNum, p.meterDen))
				p.meterPending = false
				col += size
				continue
			}
		}

		p.addPlain(r)
		col += size
	}

	return p.finishLine(spansBefore)
}

// parseMacro dispatches a backslash command at line[col:]. It returns the
// number of bytes consumed, or 0 when the caller should treat the backslash
// sequence as plain text.
func (p *songParser) parseMacro(line string, col int) (int, error) {
	remain := line[col:]

	if m := chordRe.FindStringSubmatch(remain); m != nil {
		chord, err := ParseChord(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w at %s", err, p.pos(col+1))
		}
		if p.localChord {
			p.emit(lineEvent{
				kind:     evChord,
				chord:    chord,
				shift:    p.scope().transpose,
				floating: p.floatingAt(line, col+len(m[0])),
			})
		}
		if p.memorizing {
			p.memory = append(p.memory, chord)
		}
		return len(m[0]), nil
	}

	if m := transposeRe.FindStringSubmatch(remain); m != nil {
		n, _ := strconv.Atoi(m[1])
		p.scope().transpose = n
		return len(m[0]), nil
	}

	if m := songBeginRe.FindStringSubmatch(remain); m != nil {
		title := m[1]
		if sub := titleSubRe.FindStringSubmatch(title); sub != nil {
			title = sub[1]
			p.song.Subtitle = strings.TrimSpace(sub[2])
		}
		p.song.Title = strings.TrimSpace(title)
		if by := authorRe.FindStringSubmatch(m[2]); by != nil {
			p.song.Author = by[1]
		}
		return len(m[0]), nil
	}

	if songEndRe.MatchString(remain) {
		if p.verse != nil {
			return 0, &StructureError{Detail: `\endsong inside an open verse`, Pos: p.pos(col + 1)}
		}
		p.done = true
		return len(`\endsong`), nil
	}

	if m := verseCmdRe.FindStringSubmatch(remain); m != nil {
		return len(m[0]), p.verseCmd(m[1] == "begin", m[2] == "chorus", m[3] == "*", col)
	}

	if m := capoRe.FindStringSubmatch(remain); m != nil {
		p.song.Capo, _ = strconv.Atoi(m[1])
		return len(m[0]), nil
	}

	if strings.HasPrefix(remain, `\else`) {
		p.ignore = true
		return len(`\else`), nil
	}

	if strings.HasPrefix(remain, `\memorize`) {
		p.memory = p.memory[:0]
		p.memorizing = true
		return len(`\memorize`), nil
	}

	if strings.HasPrefix(remain, `\replay`) {
		p.replayIndex = 0
		return len(`\replay`), nil
	}

	if m := repRe.FindStringSubmatch(remain); m != nil {
		count := m[1]
		if count == "" {
			count = m[2]
		}
		p.emit(lineEvent{kind: evRep, text: count})
		return len(m[0]), nil
	}

	if m := chordswapRe.FindStringSubmatch(remain); m != nil {
		p.localChord = m[1] == "on"
		if p.verse == nil {
			p.globalChord = p.localChord
		}
		return len(m[0]), nil
	}

	if m := skipRe.FindStringSubmatch(remain); m != nil {
		p.lineSkip = m[1]
		return len(m[0]), nil
	}

	if m := noteRe.FindStringSubmatch(remain); m != nil {
		html, err := Detex(m[1], FormatHTML)
		if err != nil {
			return 0, fmt.Errorf("%w at %s", err, p.pos(col+1))
		}
		if p.verse == nil {
			p.song.Blocks = append(p.song.Blocks, Block{Note: html})
		} else {
			p.emitRaw(`<p class="note">` + html + `</p>`)
		}
		return len(m[0]), nil
	}

	if strings.HasPrefix(remain, `\nolyrics`) {
		p.scope().nolyrics = true
		return len(`\nolyrics`), nil
	}

	if strings.HasPrefix(remain, `\noindent`) {
		p.verseIndent = false
		return len(`\noindent`), nil
	}

	if m := meterRe.FindStringSubmatch(remain); m != nil {
		p.meterNum = m[1]
		if p.meterNum == "" {
			p.meterNum = m[2]
		}
		p.meterDen = m[3]
		if p.meterDen == "" {
			p.meterDen = m[4]
		}
		p.meterPending = true
		return len(m[0]), nil
	}

	if m := spanCmdRe.FindStringSubmatch(remain); m != nil {
		// \emph{ }: an all-blank argument produces nothing.
		if n, blank := blankGroup(remain, len(m[0])); blank {
			return n, nil
		}
		p.frames = append(p.frames, frame{kind: frameSpan, env: m[1]})
		p.emit(lineEvent{kind: evSpanOpen, env: m[1]})
		return len(m[0]), nil
	}

	if m := declCmdRe.FindStringSubmatch(remain); m != nil {
		env := declSpan[m[1]]
		p.frames = append(p.frames, frame{kind: frameDecl, env: env})
		p.emit(lineEvent{kind: evSpanOpen, env: env})
		return len(m[0]), nil
	}

	if m := nameRe.FindStringSubmatch(remain); m != nil {
		if textMacros[m[1]] {
			return 0, nil // pass through as text
		}
		return 0, &UnsupportedMacroError{Macro: `\` + m[1], Pos: p.pos(col + 1)}
	}

	return 0, nil // lone backslash or escape: plain text
}

// consumeTextEscape copies a pass-through backslash sequence into the text
// run: \\, escapes like \%, or a known text macro such as \dots.
func (p *songParser) consumeTextEscape(remain string) int {
	if m := nameRe.FindString(remain); m != "" {
		for _, r := range m {
			p.addPlain(r)
		}
		return len(m)
	}
	// backslash plus one rune (covers \\, \%, \#, "\ ", trailing \)
	n := 1
	p.addPlain('\\')
	if len(remain) > 1 {
		r, size := utf8.DecodeRuneInString(remain[1:])
		p.addPlain(r)
		n += size
	}
	return n
}

// floatingAt reports whether a chord at this position floats between words:
// the next character is a space and the previous lyric character (if any)
// was a space too.
func (p *songParser) floatingAt(line string, after int) bool {
	if after >= len(line) || line[after] != ' ' {
		return false
	}
	return p.lastPlain == 0 || p.lastPlain == ' '
}

func (p *songParser) verseCmd(begin, chorus, star bool, col int) error {
	if begin {
		if p.verse != nil {
			return &StructureError{Detail: "verse opened inside another verse", Pos: p.pos(col + 1)}
		}
		if !chorus && len(p.memory) == 0 {
			p.memorizing = true
		}
		p.replayIndex = 0
		p.verse = NewVerse(chorus, !star, p.verseIndent)
		p.verseIndent = true
		p.pushScope(true)
		return nil
	}

	if p.verse == nil {
		return &StructureError{Detail: "verse closed without a matching begin", Pos: p.pos(col + 1)}
	}
	if p.verse.Chorus != chorus {
		want := "verse"
		if p.verse.Chorus {
			want = "chorus"
		}
		return &StructureError{
			Detail: fmt.Sprintf("%s block closed with the %s end command", want, map[bool]string{true: "chorus", false: "verse"}[chorus]),
			Pos:    p.pos(col + 1),
		}
	}
	p.memorizing = false
	p.closeVerseFrames()
	p.song.Blocks = append(p.song.Blocks, Block{Verse: p.verse})
	p.verse = nil
	p.localChord = p.globalChord
	return nil
}

// finishLine folds the accumulated events into the current verse, or into a
// standalone unnumbered verse when text appears outside any block.
func (p *songParser) finishLine(spansBefore []string) error {
	p.flushText()
	events := p.events
	text := p.text.String()

	defer func() {
		if p.lineSkip != "" {
			p.appendSkip(p.lineSkip)
		}
	}()

	if p.verse == nil {
		if strings.TrimSpace(text) != "" {
			v := NewVerse(false, false, p.verseIndent)
			p.verseIndent = true
			v.Lines = append(v.Lines, Line{
				Chords: []ChordCell{{}},
				Lyrics: []string{ReplaceTextHTML(text)},
			})
			p.song.Blocks = append(p.song.Blocks, Block{Verse: v})
		}
		return nil
	}

	if p.ignore || (strings.TrimSpace(text) == "" && len(events) == 0) {
		return nil
	}

	p.verse.Lines = append(p.verse.Lines, buildLine(events, spansBefore))
	return nil
}

// appendSkip adds a spacing row to the open verse, or to the last closed one.
func (p *songParser) appendSkip(kind string) {
	line := Line{Skip: kind}
	if p.verse != nil {
		p.verse.Lines = append(p.verse.Lines, line)
		return
	}
	for i := len(p.song.Blocks) - 1; i >= 0; i-- {
		if v := p.song.Blocks[i].Verse; v != nil {
			v.Lines = append(v.Lines, line)
			return
		}
	}
}

// blankGroup checks whether the brace group starting at off holds only
// whitespace; if so it returns the bytes to skip past the closing brace.
func blankGroup(s string, off int) (int, bool) {
	i := off
	for i < len(s) {
		switch s[i] {
		case '}':
			return i + 1, true
		case ' ', '\t':
			i++
		default:
			return 0, false
		}
	}
	return 0, false
}

// meterHTML renders the meter marker placed at the next barline.
func meterHTML(num, den string) string {
	if den != "" {
		return `<span class="meter"><span class="meter-fraction"><sup>` +
			ReplaceTextHTML(num) + `</sup><sub>` + ReplaceTextHTML(den) + `</sub></span></span>`
	}
	return `<span class="meter">` + ReplaceTextHTML(num) + `</span>`
}

// stripComment removes an unescaped % and everything after it.
func stripComment(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		return s[:i]
	}
	return s
}
