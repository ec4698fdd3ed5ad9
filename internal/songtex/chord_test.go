package songtex

import (
	"errors"
	"testing"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		name  string
		chord string
		want  string
	}{
		{
			name:  "plain note",
			chord: "C",
			want:  "Do",
		},
		{
			name:  "sharp",
			chord: "C#",
			want:  "Do♯",
		},
		{
			name:  "flat via ampersand",
			chord: "B&",
			want:  "Si♭",
		},
		{
			name:  "unicode accidentals",
			chord: "F♯",
			want:  "Fa♯",
		},
		{
			name:  "european H is B",
			chord: "H",
			want:  "Si",
		},
		{
			name:  "escaped sharp drops the backslash",
			chord: `C\#`,
			want:  "Do♯",
		},
		{
			name:  "suffix stays literal",
			chord: "Cmaj7",
			want:  "Domaj7",
		},
		{
			name:  "flat before suffix",
			chord: "C&-7",
			want:  "Si-7",
		},
		{
			name:  "two notes split by a symbol",
			chord: "C-D",
			want:  "Do-Re",
		},
		{
			name:  "letter after suffix letter is literal",
			chord: "Asus4",
			want:  "Lasus4",
		},
		{
			name:  "empty chord",
			chord: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseChord(tt.chord)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := c.Transposed(0); got != tt.want {
				t.Errorf("ParseChord(%q).Transposed(0) = %q, want %q", tt.chord, got, tt.want)
			}
		})
	}
}

func TestParseChord_AccidentalWithoutNote(t *testing.T) {
	_, err := ParseChord("&7")
	if !errors.Is(err, ErrInvalidChord) {
		t.Fatalf("expected ErrInvalidChord, got %v", err)
	}
}

func TestChord_Transposed(t *testing.T) {
	tests := []struct {
		name  string
		chord string
		shift int
		want  string
	}{
		{"up a tone", "C", 2, "Re"},
		{"down wraps around", "C", -1, "Si"},
		{"full octave is identity", "C", 12, "Do"},
		{"two octaves down", "G", -24, "Sol"},
		{"suffix untouched", "A-7", 3, "Do-7"},
		{"both notes shift", "C-D", 2, "Re-Mi"},
		{"flat note shifts", "B&", 2, "Do"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseChord(tt.chord)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := c.Transposed(tt.shift); got != tt.want {
				t.Errorf("Transposed(%d) = %q, want %q", tt.shift, got, tt.want)
			}
		})
	}
}

func TestChord_String(t *testing.T) {
	c, err := ParseChord("E")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.String(); got != "Mi" {
		t.Errorf("String() = %q, want %q", got, "Mi")
	}
}
