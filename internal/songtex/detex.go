package songtex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Format selects the output of Detex.
type Format int

const (
	FormatPlain Format = iota
	FormatHTML
)

// spanBegin and spanEnd map text span macros to the inline HTML that opens
// and closes them.
var spanBegin = map[string]string{
	"echo":            `<em class="echo">`,
	"poetry":          `<em class="poetry">`,
	"emph":            "<em>",
	"textit":          "<i>",
	"textbf":          "<b>",
	"underline":       "<u>",
	"alert":           "<mark>",
	"textsuperscript": "<sup>",
	"textsubscript":   "<sub>",
	"textnormal":      `<span class="normal">`,
	"textsmall":       `<small class="small">`,
	"texttiny":        `<small class="tiny">`,
}

var spanEnd = map[string]string{
	"echo":            "</em>",
	"poetry":          "</em>",
	"emph":            "</em>",
	"textit":          "</i>",
	"textbf":          "</b>",
	"underline":       "</u>",
	"alert":           "</mark>",
	"textsuperscript": "</sup>",
	"textsubscript":   "</sub>",
	"textnormal":      "</span>",
	"textsmall":       "</small>",
	"texttiny":        "</small>",
}

// htmlEscaper escapes characters that HTML could misread as markup.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// htmlReplacer rewrites macros with an HTML-specific expansion.
// It runs after escaping, so it may safely emit tags and entities.
var htmlReplacer = strings.NewReplacer(
	`\\`, "<br>",
	`\newline`, "<br>",
	`\star`, "&starf;",
	"~", "&nbsp;",
	`\dimshed`, "&deg;",
	`\meterCutC`, "&#x1D135;",
	`\lrep`, "&#x1D106;",
	`\rrep`, "&#x1D107;",
)

// plainReplacer is the text-output counterpart of htmlReplacer.
var plainReplacer = strings.NewReplacer(
	`\\`, "\n",
	`\newline`, "\n",
	`\star`, "⋆",
	"~", " ",
	`\dimshed`, "°",
	`\meterCutC`, "𝄵",
	`\lrep`, "𝄆",
	`\rrep`, "𝄇",
)

// commonReplacer applies format-independent typography and escapes.
// Argument order matters: "---" must win over "--".
var commonReplacer = strings.NewReplacer(
	"---", "—",
	"--", "–",
	`\dots`, "…",
	"$", "",
	`\ast`, "*",
	`\ `, " ",
	`\%`, "%",
	`\#`, "#",
	`\textbackslash`, `\`,
)

// spanPatterns are compiled lazily once: one pattern pair per span macro.
type spanPattern struct {
	empty *regexp.Regexp
	full  *regexp.Regexp
	open  string
	close string
}

var spanPatterns = buildSpanPatterns()

func buildSpanPatterns() []spanPattern {
	// Deterministic iteration: sort not required for correctness of the
	// replacements, but keeps behavior stable across runs.
	names := make([]string, 0, len(spanBegin))
	for name := range spanBegin {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]spanPattern, 0, len(names))
	for _, name := range names {
		out = append(out, spanPattern{
			empty: regexp.MustCompile(`\\` + name + `[ \t]*\{[ \t]*\}`),
			full:  regexp.MustCompile(`\\` + name + `[ \t]*\{(([^{}]*|\{.*?\})*?)(\}|$)`),
			open:  spanBegin[name],
			close: spanEnd[name],
		})
	}
	return out
}

// macroPattern matches any remaining \macro with optional arguments.
var macroPattern = regexp.MustCompile(`\\(\d?\w+)[ \t]*?(\{.*?\}|\[.*?\])*`)

// braceStripper removes grouping braces left after macro expansion.
var braceStripper = strings.NewReplacer("{", "", "}", "")

// Detex converts a LaTeX text fragment (song titles, authors, notes) to the
// requested format. Any macro outside the supported set is an error; callers
// add position context.
func Detex(src string, f Format) (string, error) {
	if f == FormatHTML {
		src = htmlEscaper.Replace(src)
		src = htmlReplacer.Replace(src)
	}
	for _, p := range spanPatterns {
		src = p.empty.ReplaceAllString(src, "")
		if f == FormatHTML {
			src = p.full.ReplaceAllString(src, p.open+"${1}"+p.close)
		} else {
			src = p.full.ReplaceAllString(src, "${1}")
		}
	}

	src = plainReplacer.Replace(src)
	src = commonReplacer.Replace(src)

	if m := macroPattern.FindString(src); m != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMacro, strings.TrimSpace(m))
	}

	src = braceStripper.Replace(src)
	if f == FormatHTML {
		src = strings.ReplaceAll(src, "\n", "")
	}
	return src, nil
}

// ReplaceTextHTML converts plain lyric text to HTML: escaping plus symbol
// replacements. Macros are not expected here; the parser has already
// consumed them.
func ReplaceTextHTML(s string) string {
	s = htmlEscaper.Replace(s)
	s = htmlReplacer.Replace(s)
	return commonReplacer.Replace(s)
}
