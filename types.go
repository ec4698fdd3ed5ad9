package songbook

import (
	"fmt"
	"time"
)

// Defaults applied when Input fields are empty.
const (
	DefaultLanguage = "en"
	DefaultTOCTitle = "Table of contents"
)

// Transposition bounds in semitones. Anything further than two octaves is
// almost certainly a typo.
const (
	MinTranspose = -24
	MaxTranspose = 24
)

// Input contains conversion parameters.
type Input struct {
	SourcePath string // main .tex file (required)
	Language   string // HTML lang attribute (default "en")
	TOCTitle   string // TOC heading (default "Table of contents")
	Transpose  int    // global semitone shift applied to every chord
	NoChords   bool   // suppress chord rows
	CSS        string // stylesheet embedded in the page (optional)
	Preface    string // Markdown preface content (optional)
}

// Validate checks that input parameters are in range.
func (in *Input) Validate() error {
	if in.SourcePath == "" {
		return fmt.Errorf("%w: no source path", ErrReadSource)
	}
	if in.Transpose < MinTranspose || in.Transpose > MaxTranspose {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidTranspose, in.Transpose, MinTranspose, MaxTranspose)
	}
	return nil
}

// withDefaults returns a copy with empty fields replaced by defaults.
func (in Input) withDefaults() Input {
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.TOCTitle == "" {
		in.TOCTitle = DefaultTOCTitle
	}
	return in
}

// Result holds the rendered page.
type Result struct {
	HTML string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
}

// defaultTimeout bounds PDF rendering when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("songbook: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}
