package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
	if cfg.TOCTitle != "Table of contents" {
		t.Errorf("TOCTitle = %q", cfg.TOCTitle)
	}
	if !cfg.ChordsEnabled() {
		t.Error("chords must default to enabled")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "book.yml", strings.Join([]string{
		"language: it",
		"tocTitle: Indice",
		"transpose: -2",
		"chords: false",
		"style: plain",
		"pdf:",
		"  timeout: 45s",
	}, "\n"))

	cfg, err := LoadConfig(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "it" || cfg.TOCTitle != "Indice" {
		t.Errorf("got %q/%q", cfg.Language, cfg.TOCTitle)
	}
	if cfg.Transpose != -2 {
		t.Errorf("Transpose = %d", cfg.Transpose)
	}
	if cfg.ChordsEnabled() {
		t.Error("chords: false not honored")
	}
	if cfg.Style != "plain" {
		t.Errorf("Style = %q", cfg.Style)
	}
	d, err := cfg.PDFTimeout(time.Second)
	if err != nil || d != 45*time.Second {
		t.Errorf("PDFTimeout = %v, %v", d, err)
	}
}

func TestLoadConfig_BareNameSearchesSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "book.yml", "language: fr\n")

	cfg, err := LoadConfig("book", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "fr" {
		t.Errorf("Language = %q, want fr", cfg.Language)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty name", func(t *testing.T) {
		_, err := LoadConfig("", dir)
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Fatalf("expected ErrEmptyConfigName, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Setenv("HOME", dir)
		_, err := LoadConfig("ghost", dir)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, dir, "broken.yml", "language: [unclosed\n")
		_, err := LoadConfig(path, dir)
		if !errors.Is(err, ErrConfigParse) {
			t.Fatalf("expected ErrConfigParse, got %v", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := writeConfig(t, dir, "typo.yml", "lanugage: it\n")
		_, err := LoadConfig(path, dir)
		if !errors.Is(err, ErrConfigParse) {
			t.Fatalf("expected ErrConfigParse for unknown key, got %v", err)
		}
	})

	t.Run("field too long", func(t *testing.T) {
		path := writeConfig(t, dir, "long.yml", "language: "+strings.Repeat("x", MaxLanguageLength+1)+"\n")
		_, err := LoadConfig(path, dir)
		if !errors.Is(err, ErrFieldTooLong) {
			t.Fatalf("expected ErrFieldTooLong, got %v", err)
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		path := writeConfig(t, dir, "badtimeout.yml", "pdf:\n  timeout: soon\n")
		cfg, err := LoadConfig(path, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := cfg.PDFTimeout(time.Second); !errors.Is(err, ErrConfigParse) {
			t.Fatalf("expected ErrConfigParse, got %v", err)
		}
	})
}

func TestDiscover(t *testing.T) {
	t.Run("finds file next to the source", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("HOME", t.TempDir())
		writeConfig(t, dir, ".songs2html.yml", "language: de\n")

		cfg, err := Discover(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Language != "de" {
			t.Errorf("Language = %q, want de", cfg.Language)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		writeConfig(t, home, ".songs2html.yml", "language: es\n")

		cfg, err := Discover(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Language != "es" {
			t.Errorf("Language = %q, want es", cfg.Language)
		}
	})

	t.Run("missing file means defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := Discover(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Language != "en" {
			t.Errorf("Language = %q, want default en", cfg.Language)
		}
	})
}

func TestChordsEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ChordsEnabled() {
		t.Error("nil means enabled")
	}
	on := true
	cfg.Chords = &on
	if !cfg.ChordsEnabled() {
		t.Error("true means enabled")
	}
	off := false
	cfg.Chords = &off
	if cfg.ChordsEnabled() {
		t.Error("false means disabled")
	}
}
