package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds flags controlling the generated page.
type pageFlags struct {
	lang     string
	tocTitle string
	preface  string
}

// chordFlags holds chord rendering flags.
type chordFlags struct {
	transpose int
	// transposeSet distinguishes an explicit --transpose=0 from the default.
	transposeSet bool
	noChords     bool
}

// styleFlags holds stylesheet flags.
type styleFlags struct {
	style   string
	noStyle bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	page    pageFlags
	chords  chordFlags
	styling styleFlags
	timeout string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addPageFlags adds page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.lang, "lang", "l", "", "HTML lang attribute (e.g. it, en)")
	fs.StringVar(&f.tocTitle, "toc-title", "", "table of contents heading")
	fs.StringVar(&f.preface, "preface", "", "Markdown file inserted before the first song")
}

// addChordFlags adds chord flags to a FlagSet.
func addChordFlags(fs *flag.FlagSet, f *chordFlags) {
	fs.IntVarP(&f.transpose, "transpose", "t", 0, "shift all chords by n semitones")
	fs.BoolVar(&f.noChords, "no-chords", false, "omit chord rows")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.style, "style", "s", "", "embedded style name or CSS file path")
	fs.BoolVar(&f.noStyle, "no-style", false, "emit the page without a stylesheet")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVar(&f.timeout, "timeout", "", "PDF rendering timeout (e.g. 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addChordFlags(fs, &f.chords)
	addStyleFlags(fs, &f.styling)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.chords.transposeSet = fs.Changed("transpose")

	return f, fs.Args(), nil
}
