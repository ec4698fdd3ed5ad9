package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: songs2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a LaTeX songbook to a single HTML page or PDF")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'songs2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: songs2html convert <source.tex> [output.html|output.pdf] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a LaTeX songs-package songbook to a single HTML page.")
	fmt.Fprintln(w, "An output ending in .pdf is rendered through headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    Main .tex file (\\input references are resolved relative to it)")
	fmt.Fprintln(w, "  output    Output file (default: source with .html extension)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -l, --lang <s>        HTML lang attribute (e.g. it, en)")
	fmt.Fprintln(w, "      --toc-title <s>   Table of contents heading")
	fmt.Fprintln(w, "      --preface <path>  Markdown file inserted before the first song")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chords:")
	fmt.Fprintln(w, "  -t, --transpose <n>   Shift all chords by n semitones")
	fmt.Fprintln(w, "      --no-chords       Omit chord rows")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "  -s, --style <s>       Embedded style name or CSS file path")
	fmt.Fprintln(w, "      --no-style        Emit the page without a stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --timeout <d>     Rendering timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show detailed progress")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: songs2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: songs2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
