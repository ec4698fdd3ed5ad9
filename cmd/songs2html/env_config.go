package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/DPDmancul/latex-songs-to-html/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // SONGS2HTML_CONFIG: config file name or path
	Language   string        // SONGS2HTML_LANG: HTML lang attribute
	TOCTitle   string        // SONGS2HTML_TOC_TITLE: TOC heading text
	Style      string        // SONGS2HTML_STYLE: style name or CSS path
	Timeout    time.Duration // SONGS2HTML_TIMEOUT: PDF rendering timeout
}

// knownEnvVars lists valid SONGS2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SONGS2HTML_CONFIG":    true,
	"SONGS2HTML_LANG":      true,
	"SONGS2HTML_TOC_TITLE": true,
	"SONGS2HTML_STYLE":     true,
	"SONGS2HTML_TIMEOUT":   true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SONGS2HTML_CONFIG"),
		Language:   os.Getenv("SONGS2HTML_LANG"),
		TOCTitle:   os.Getenv("SONGS2HTML_TOC_TITLE"),
		Style:      os.Getenv("SONGS2HTML_STYLE"),
	}

	if timeout := os.Getenv("SONGS2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SONGS2HTML_* variables.
// Helps catch typos like SONGS2HTML_LANGUAGE instead of SONGS2HTML_LANG.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SONGS2HTML_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays environment variable values onto config.
// Environment variables beat the config file; CLI flags are applied
// later and beat both. This gives: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Language != "" {
		cfg.Language = env.Language
	}
	if env.TOCTitle != "" {
		cfg.TOCTitle = env.TOCTitle
	}
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.Timeout > 0 {
		cfg.PDF.Timeout = env.Timeout.String()
	}
}
