package main

import (
	"errors"
	"os"

	songbook "github.com/DPDmancul/latex-songs-to-html"
	"github.com/DPDmancul/latex-songs-to-html/internal/assets"
	"github.com/DPDmancul/latex-songs-to-html/internal/config"
)

// Exit codes for songs2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitMarkup  = 5 // Errors in the songbook source itself
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Source markup errors (exit 5)
	if errors.Is(err, songbook.ErrUnsupportedMacro) ||
		errors.Is(err, songbook.ErrMalformedSong) ||
		errors.Is(err, songbook.ErrInvalidChord) {
		return ExitMarkup
	}

	// Browser errors (exit 4)
	if errors.Is(err, songbook.ErrBrowserConnect) ||
		errors.Is(err, songbook.ErrPageCreate) ||
		errors.Is(err, songbook.ErrPageLoad) ||
		errors.Is(err, songbook.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, songbook.ErrReadSource) ||
		errors.Is(err, songbook.ErrWriteOutput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrReadPreface) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, songbook.ErrInvalidTranspose) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrBadOutputExtension) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
