// Package config loads converter settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// maxConfigSize caps config input to keep parsing cheap.
const maxConfigSize = 1 << 20

// Field length limits.
const (
	MaxLanguageLength = 35 // BCP 47 upper bound
	MaxTOCTitleLength = 100
	MaxStyleLength    = 255 // style name or file path
	MaxPrefaceLength  = 4096
)

// defaultFileName is looked up when no explicit path is given.
const defaultFileName = ".songs2html.yml"

// Config holds all settings for songbook conversion.
type Config struct {
	Language  string    `yaml:"language"`  // HTML lang attribute
	TOCTitle  string    `yaml:"tocTitle"`  // TOC heading text
	Transpose int       `yaml:"transpose"` // global semitone shift
	Chords    *bool     `yaml:"chords"`    // nil = enabled
	Style     string    `yaml:"style"`     // embedded style name or CSS path
	Preface   string    `yaml:"preface"`   // Markdown file path
	PDF       PDFConfig `yaml:"pdf"`
}

// PDFConfig holds settings used only when rendering to PDF.
type PDFConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Language: "en",
		TOCTitle: "Table of contents",
	}
}

// ChordsEnabled reports whether chords should be rendered.
func (c *Config) ChordsEnabled() bool {
	return c.Chords == nil || *c.Chords
}

// PDFTimeout parses the configured timeout, falling back to def.
func (c *Config) PDFTimeout(def time.Duration) (time.Duration, error) {
	if c.PDF.Timeout == "" {
		return def, nil
	}
	d, err := time.ParseDuration(c.PDF.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pdf.timeout: %v", ErrConfigParse, err)
	}
	return d, nil
}

// Validate checks field length limits.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"language", c.Language, MaxLanguageLength},
		{"tocTitle", c.TOCTitle, MaxTOCTitleLength},
		{"style", c.Style, MaxStyleLength},
		{"preface", c.Preface, MaxPrefaceLength},
	}
	for _, ck := range checks {
		if len(ck.value) > ck.max {
			return fmt.Errorf("%w: %s (%d > %d)", ErrFieldTooLong, ck.field, len(ck.value), ck.max)
		}
	}
	return nil
}

// LoadConfig reads a config file. The name is either a path or a bare name
// resolved against the search directories (sourceDir, then $HOME).
func LoadConfig(name, sourceDir string) (*Config, error) {
	if name == "" {
		return nil, ErrEmptyConfigName
	}

	path, err := resolvePath(name, sourceDir)
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// Discover looks for the default config file in the source directory and the
// user's home directory. A missing file is not an error: defaults apply.
func Discover(sourceDir string) (*Config, error) {
	for _, dir := range searchDirs(sourceDir) {
		path := filepath.Join(dir, defaultFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadFile(path)
	}
	return DefaultConfig(), nil
}

func searchDirs(sourceDir string) []string {
	dirs := []string{}
	if sourceDir != "" {
		dirs = append(dirs, sourceDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}

func resolvePath(name, sourceDir string) (string, error) {
	// Explicit path: use as-is.
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
		}
		return name, nil
	}

	candidates := []string{name}
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		candidates = append(candidates, name+".yml", name+".yaml")
	}
	for _, dir := range append([]string{"."}, searchDirs(sourceDir)...) {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user flags
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfigNotFound, path, err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrConfigParse, path, maxConfigSize)
	}

	cfg := DefaultConfig()
	// Strict mode surfaces typos in keys instead of ignoring them.
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
