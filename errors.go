package songbook

import (
	"errors"

	"github.com/DPDmancul/latex-songs-to-html/internal/songtex"
)

// Sentinel errors for library operations.
var (
	ErrReadSource       = errors.New("failed to read songbook source")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrInvalidTranspose = errors.New("invalid transposition")
	ErrPrefaceRender    = errors.New("preface rendering failed")

	// PDF rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// Parse errors, surfaced from the songtex parser. Both carry the source
// position of the offending input; use errors.As with
// *songtex.UnsupportedMacroError or *songtex.StructureError for details.
var (
	ErrUnsupportedMacro = songtex.ErrUnsupportedMacro
	ErrMalformedSong    = songtex.ErrMalformedSong
	ErrInvalidChord     = songtex.ErrInvalidChord
)
