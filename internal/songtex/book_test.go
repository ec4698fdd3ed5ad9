package songtex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func songFile(title string) string {
	return strings.Join([]string{
		`\beginsong{` + title + `}`,
		`\beginverse`,
		`\[C]la la`,
		`\endverse`,
		`\endsong`,
	}, "\n")
}

func TestLoadBook(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", strings.Join([]string{
		`\songsection{My Songbook}`,
		`\begin{songs}{}`,
		`\input{one}`,
		`\input{two.tex}`,
		`\songsection{Part Two}`,
		`\input{three}`,
		`\end{songs}`,
	}, "\n"))
	writeFile(t, dir, "one.tex", songFile("First"))
	writeFile(t, dir, "two.tex", songFile("Second"))
	writeFile(t, dir, "three.tex", songFile("Third"))

	book, err := LoadBook(filepath.Join(dir, "main.tex"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.Title != "My Songbook" {
		t.Errorf("Title = %q, want My Songbook", book.Title)
	}
	if len(book.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(book.Sections))
	}
	if book.Sections[0].Name != "" {
		t.Errorf("first section keeps the book title: Name = %q", book.Sections[0].Name)
	}
	if book.Sections[1].Name != "Part Two" {
		t.Errorf("second section Name = %q", book.Sections[1].Name)
	}

	if len(book.Sections[0].Songs) != 2 || len(book.Sections[1].Songs) != 1 {
		t.Fatalf("song distribution = %d/%d, want 2/1", len(book.Sections[0].Songs), len(book.Sections[1].Songs))
	}

	// Numbering is global across sections, in reference order.
	wantTitles := []string{"First", "Second", "Third"}
	num := 0
	for _, sec := range book.Sections {
		for _, s := range sec.Songs {
			num++
			if s.Number != num {
				t.Errorf("song %q Number = %d, want %d", s.Title, s.Number, num)
			}
			if s.Title != wantTitles[num-1] {
				t.Errorf("song #%d Title = %q, want %q", num, s.Title, wantTitles[num-1])
			}
		}
	}
}

func TestLoadBook_NoSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", strings.Join([]string{
		`\begin{songs}{}`,
		`\input{one}`,
		`\end{songs}`,
	}, "\n"))
	writeFile(t, dir, "one.tex", songFile("Only"))

	book, err := LoadBook(filepath.Join(dir, "main.tex"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Title != "" {
		t.Errorf("Title = %q, want empty", book.Title)
	}
	if len(book.Sections) != 1 || book.Sections[0].Name != "" {
		t.Fatalf("expected one unnamed section, got %+v", book.Sections)
	}
}

func TestLoadBook_InputsOutsideSongsEnvIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", strings.Join([]string{
		`\input{preamble}`,
		`\begin{songs}{}`,
		`\input{one}`,
		`\end{songs}`,
		`\input{closing}`,
	}, "\n"))
	writeFile(t, dir, "one.tex", songFile("Only"))

	book, err := LoadBook(filepath.Join(dir, "main.tex"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, sec := range book.Sections {
		total += len(sec.Songs)
	}
	if total != 1 {
		t.Errorf("expected 1 song, got %d", total)
	}
}

func TestLoadBook_MissingSource(t *testing.T) {
	_, err := LoadBook(filepath.Join(t.TempDir(), "nope.tex"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadBook_MissingSongFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", strings.Join([]string{
		`\begin{songs}{}`,
		`\input{ghost}`,
		`\end{songs}`,
	}, "\n"))

	_, err := LoadBook(filepath.Join(dir, "main.tex"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadBook_ParseErrorCarriesFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", strings.Join([]string{
		`\begin{songs}{}`,
		`\input{bad}`,
		`\end{songs}`,
	}, "\n"))
	writeFile(t, dir, "bad.tex", strings.Join([]string{
		`\beginsong{Bad}`,
		`\unknownmacro`,
		`\endsong`,
	}, "\n"))

	_, err := LoadBook(filepath.Join(dir, "main.tex"))
	if !errors.Is(err, ErrUnsupportedMacro) {
		t.Fatalf("expected ErrUnsupportedMacro, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.tex:2") {
		t.Errorf("error lacks file position: %v", err)
	}
}
