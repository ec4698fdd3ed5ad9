// Package songbook converts a LaTeX songs-package songbook into a single
// HTML page with a generated table of contents.
//
// # Quick Start
//
// Create a converter and convert a songbook:
//
//	conv := songbook.New()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, songbook.Input{
//	    SourcePath: "book.tex",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("book.html", []byte(result.HTML), 0644)
//
// # Conversion Pipeline
//
// The conversion runs these stages, in one deterministic pass:
//
//  1. Book loading: the main file's sections and \input song files
//     (internal/songtex)
//  2. Song parsing: macro translation with strict error reporting
//  3. Document assembly: an ordered node sequence with validated block
//     nesting (internal/htmlgen)
//  4. TOC building: slugified, de-duplicated anchors in source order
//  5. HTML emission: one complete page, with the configured language and
//     TOC title
//
// An optional Markdown preface is rendered via Goldmark, and the finished
// page can be rendered to PDF with headless Chrome (go-rod) through
// Converter.RenderPDF.
//
// # Error Handling
//
// The supported macro set is closed: any unknown macro fails the conversion
// with ErrUnsupportedMacro naming the macro and its source position, and
// malformed verse/chorus nesting fails with ErrMalformedSong. Callers that
// write the output should do so only after Convert returns without error;
// the songs2html CLI writes atomically for this reason.
//
// # Browser Requirements
//
// PDF rendering requires Chrome/Chromium. go-rod downloads a managed
// Chromium on first run; set ROD_BROWSER_BIN to use a pre-installed binary
// and ROD_NO_SANDBOX=1 in containers.
package songbook
