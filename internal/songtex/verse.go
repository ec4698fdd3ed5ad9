package songtex

// Verse is a verse or chorus block of a song.
type Verse struct {
	Chorus   bool
	Numbered bool // numbered verses get a running number column
	Indent   bool
	Lines    []Line
}

// NewVerse creates a verse. Choruses are never numbered nor indented.
func NewVerse(chorus, numbered, indent bool) *Verse {
	return &Verse{
		Chorus:   chorus,
		Numbered: !chorus && numbered,
		Indent:   !chorus && indent,
	}
}

// HasChords reports whether any line of the verse carries chords.
func (v *Verse) HasChords() bool {
	for i := range v.Lines {
		if v.Lines[i].HasChords() {
			return true
		}
	}
	return false
}
