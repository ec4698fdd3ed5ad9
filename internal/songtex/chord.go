package songtex

import (
	"fmt"
	"strings"
)

// noteNames are Italian note names indexed by semitone distance from Do.
var noteNames = [12]string{
	"Do", "Do♯", "Re", "Mi♭", "Mi", "Fa", "Fa♯", "Sol", "Sol♯", "La", "Si♭", "Si",
}

// noteSemitones maps English note letters to semitones from C.
// European notation: H is B, and B♭ equals A♯.
var noteSemitones = map[rune]int{
	'A': 9, 'B': 11, 'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'H': 11,
}

// accidentalShift maps sharp and flat symbols to their semitone shift.
var accidentalShift = map[rune]int{
	'#': 1, '♯': 1, '&': -1, '♭': -1,
}

// chordToken is either a note (semitone index) or a literal symbol run.
type chordToken struct {
	note int // valid when sym is empty
	sym  string
}

// Chord is a tokenized chord: note names are transposable, everything else
// (suffixes like "-7", "sus4") is carried through literally.
type Chord struct {
	tokens []chordToken
}

// ParseChord tokenizes a chord written with English note letters (A-H),
// accidentals # or & (also ♯ and ♭), and arbitrary suffix symbols.
//
//	ParseChord("C&-7").Transposed(0) == "Si-7"
func ParseChord(s string) (*Chord, error) {
	c := &Chord{}
	for _, r := range s {
		n, isNote := noteSemitones[r]
		shift, isAccidental := accidentalShift[r]

		// A letter counts as a note only at the start of the chord or right
		// after a non-alphanumeric symbol; "Cmaj" keeps "maj" literal while
		// "C-D" holds two notes.
		if (isNote || isAccidental) && c.noteAllowedNext() {
			if isAccidental {
				// \# and \& escape forms drop the backslash.
				if len(c.tokens) > 0 && c.tokens[len(c.tokens)-1].sym == "\\" {
					c.tokens = c.tokens[:len(c.tokens)-1]
				}
				if len(c.tokens) == 0 || c.tokens[len(c.tokens)-1].sym != "" {
					return nil, fmt.Errorf("%w: %q: accidental %q without a note", ErrInvalidChord, s, string(r))
				}
				c.tokens[len(c.tokens)-1].note = mod12(c.tokens[len(c.tokens)-1].note + shift)
				continue
			}
			c.tokens = append(c.tokens, chordToken{note: n})
			continue
		}

		// Literal symbol: extend the current run or start a new one.
		if len(c.tokens) > 0 && c.tokens[len(c.tokens)-1].sym != "" {
			c.tokens[len(c.tokens)-1].sym += string(r)
		} else {
			c.tokens = append(c.tokens, chordToken{sym: string(r)})
		}
	}
	return c, nil
}

// noteAllowedNext reports whether the next letter may start a note.
func (c *Chord) noteAllowedNext() bool {
	if len(c.tokens) == 0 {
		return true
	}
	last := c.tokens[len(c.tokens)-1]
	if last.sym == "" {
		return true // previous token is a note
	}
	r := []rune(last.sym)
	tail := r[len(r)-1]
	return !isAlnum(tail)
}

// Transposed renders the chord with Italian note names, shifting every note
// by n semitones.
func (c *Chord) Transposed(n int) string {
	var b strings.Builder
	for _, t := range c.tokens {
		if t.sym != "" {
			b.WriteString(t.sym)
			continue
		}
		b.WriteString(noteNames[mod12(t.note+n)])
	}
	return b.String()
}

func (c *Chord) String() string { return c.Transposed(0) }

func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}

func isAlnum(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
