package songtex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Section groups the songs listed under one \songsection or \section.
// Name is empty for songs appearing before the first section command.
type Section struct {
	Name  string
	Songs []*Song
}

// Book is a parsed songbook: the main file's sections in source order.
// Title is the first section name; that section keeps an empty Name and is
// rendered without its own heading.
type Book struct {
	Title    string
	Sections []Section
}

var (
	sectionRe  = regexp.MustCompile(`\\(?:songsection\*?|.?section\*?)\{([^}]+)\}`)
	songsEnvRe = regexp.MustCompile(`^\\(begin|end)\{songs\}`)
	inputRe    = regexp.MustCompile(`\\input\{([^}]+)\}`)
)

// LoadBook reads the main .tex file and parses every song it references.
// Song files are resolved relative to the main file's directory; a missing
// .tex extension is appended. Songs are numbered in reference order across
// all sections.
func LoadBook(source string) (*Book, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening songbook: %w", err)
	}
	defer f.Close()

	book := &Book{}
	dir := filepath.Dir(source)
	intoSongs := false
	index := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := stripComment(sc.Text())

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			book.Sections = append(book.Sections, Section{Name: m[1]})
			continue
		}
		if !intoSongs {
			if m := songsEnvRe.FindStringSubmatch(line); m != nil && m[1] == "begin" {
				intoSongs = true
			}
			continue
		}
		if m := songsEnvRe.FindStringSubmatch(line); m != nil && m[1] == "end" {
			break
		}

		m := inputRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if !strings.HasSuffix(name, ".tex") {
			name += ".tex"
		}
		index++
		song, err := loadSong(filepath.Join(dir, name), index)
		if err != nil {
			return nil, err
		}
		if len(book.Sections) == 0 {
			book.Sections = append(book.Sections, Section{})
		}
		last := &book.Sections[len(book.Sections)-1]
		last.Songs = append(last.Songs, song)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading songbook: %w", err)
	}

	// The first section titles the whole book.
	if len(book.Sections) > 0 && book.Sections[0].Name != "" {
		book.Title = book.Sections[0].Name
		book.Sections[0].Name = ""
	}
	return book, nil
}

func loadSong(path string, index int) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening song file: %w", err)
	}
	defer f.Close()

	song, err := ParseSong(f, filepath.Base(path), index)
	if err != nil {
		return nil, err
	}
	return song, nil
}
