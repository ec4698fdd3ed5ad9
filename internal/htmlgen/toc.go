package htmlgen

import (
	"strconv"
	"strings"
	"unicode"
)

// TOCEntry is one table-of-contents item, derived from a Heading node.
type TOCEntry struct {
	Level      int
	HTML       string
	Anchor     string
	Number     int
	AuthorHTML string
}

// BuildTOC derives TOC entries from the document's Heading nodes in order and
// assigns each heading a unique anchor. The first heading with a given slug
// keeps it bare; later duplicates get -2, -3, ... suffixes. Suffixing keeps
// going past natural slugs that already occupy a candidate, so "Intro 2"
// cannot collide with the second "Intro".
func BuildTOC(doc *Document) {
	taken := make(map[string]bool)
	for _, n := range doc.Nodes {
		h, ok := n.(*Heading)
		if !ok {
			continue
		}
		base := Slugify(h.Plain)
		anchor := base
		for i := 2; taken[anchor]; i++ {
			anchor = base + "-" + strconv.Itoa(i)
		}
		taken[anchor] = true
		h.Anchor = anchor
		doc.TOC = append(doc.TOC, TOCEntry{
			Level:      h.Level,
			HTML:       h.HTML,
			Anchor:     anchor,
			Number:     h.Number,
			AuthorHTML: h.AuthorHTML,
		})
	}
}

// Slugify converts heading text into a URL-safe anchor: lowercase, with
// every run of non-alphanumeric characters collapsed into one hyphen.
// Text without any usable character slugs to "heading".
func Slugify(text string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}
	if b.Len() == 0 {
		return "heading"
	}
	return b.String()
}
