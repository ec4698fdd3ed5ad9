// Package songtex parses the subset of the LaTeX songs package dialect
// understood by this converter: a main file with \songsection headings and a
// songs environment whose \input commands reference one song file each, and
// song files built from \beginsong, verse/chorus blocks, chords, and a fixed
// set of formatting macros.
//
// Parsing is a single pass. Every macro outside the supported set is reported
// as an error with its source position; malformed block nesting is reported
// as a structure error. Nothing is silently dropped.
package songtex

import (
	"errors"
	"fmt"
)

// Sentinel errors for parse operations.
var (
	ErrUnsupportedMacro = errors.New("unsupported macro")
	ErrMalformedSong    = errors.New("malformed song structure")
	ErrInvalidChord     = errors.New("invalid chord")
)

// Pos identifies a location in a source file. Col is a 1-based rune offset
// in the comment-stripped line.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string {
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// UnsupportedMacroError reports a macro outside the supported set.
type UnsupportedMacroError struct {
	Macro string // including the leading backslash
	Pos   Pos
}

func (e *UnsupportedMacroError) Error() string {
	return fmt.Sprintf("%v: %s at %s", ErrUnsupportedMacro, e.Macro, e.Pos)
}

func (e *UnsupportedMacroError) Unwrap() error { return ErrUnsupportedMacro }

// StructureError reports malformed nesting of structural blocks.
type StructureError struct {
	Detail string
	Pos    Pos
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%v: %s at %s", ErrMalformedSong, e.Detail, e.Pos)
}

func (e *StructureError) Unwrap() error { return ErrMalformedSong }
