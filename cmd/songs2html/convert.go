package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	songbook "github.com/DPDmancul/latex-songs-to-html"
	"github.com/DPDmancul/latex-songs-to-html/internal/assets"
	"github.com/DPDmancul/latex-songs-to-html/internal/config"
	"github.com/DPDmancul/latex-songs-to-html/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no source file specified")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrReadPreface        = errors.New("failed to read preface file")
	ErrBadOutputExtension = errors.New("output must have .html, .htm or .pdf extension")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// filePermissions is the mode for generated output files.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// defaultPDFTimeout bounds PDF rendering when neither flag nor config set one.
const defaultPDFTimeout = 30 * time.Second

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input songbook.Input) (*songbook.Result, error)
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*songbook.Converter)(nil)

// newConverter builds the production converter. Tests replace it.
var newConverter = func(timeout time.Duration) Converter {
	return songbook.New(songbook.WithTimeout(timeout))
}

// runConvert orchestrates a single conversion.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	sourcePath := positionalArgs[0]
	sourceDir := filepath.Dir(sourcePath)

	outputPath := resolveOutputPath(positionalArgs, sourcePath)
	if err := validateOutputExtension(outputPath); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfiguration(flags, envCfg, sourceDir)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeout(flags.timeout, cfg)
	if err != nil {
		return err
	}

	css, err := resolveCSS(cfg.Style, flags.styling.noStyle)
	if err != nil {
		return err
	}

	preface, err := readPreface(cfg.Preface, sourceDir)
	if err != nil {
		return err
	}

	conv := newConverter(timeout)
	defer func() { _ = conv.Close() }()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %s\n", sourcePath)
	}

	result, err := conv.Convert(ctx, songbook.Input{
		SourcePath: sourcePath,
		Language:   cfg.Language,
		TOCTitle:   cfg.TOCTitle,
		Transpose:  cfg.Transpose,
		NoChords:   !cfg.ChordsEnabled(),
		CSS:        css,
		Preface:    preface,
	})
	if err != nil {
		return err
	}

	data := []byte(result.HTML)
	if strings.EqualFold(filepath.Ext(outputPath), ".pdf") {
		if flags.common.verbose {
			fmt.Fprintln(env.Stderr, "Rendering PDF...")
		}
		data, err = conv.RenderPDF(ctx, result.HTML)
		if err != nil {
			return err
		}
	}

	if err := fileutil.WriteFileAtomic(outputPath, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", songbook.ErrWriteOutput, err)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outputPath)
	}
	return nil
}

// resolveOutputPath returns the second positional argument, or the source
// path with its extension swapped for .html.
func resolveOutputPath(args []string, sourcePath string) string {
	if len(args) > 1 {
		return args[1]
	}
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + ".html"
}

// validateOutputExtension checks for a supported output format.
func validateOutputExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".pdf":
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrBadOutputExtension, filepath.Ext(path))
}

// loadConfiguration loads the config file named on the command line or in
// the environment, falling back to discovery next to the source file.
func loadConfiguration(flags *convertFlags, envCfg *envConfig, sourceDir string) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		cfg, err := config.LoadConfig(name, sourceDir)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	return config.Discover(sourceDir)
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.page.lang != "" {
		cfg.Language = flags.page.lang
	}
	if flags.page.tocTitle != "" {
		cfg.TOCTitle = flags.page.tocTitle
	}
	if flags.page.preface != "" {
		cfg.Preface = flags.page.preface
	}
	if flags.chords.transposeSet {
		cfg.Transpose = flags.chords.transpose
	}
	if flags.chords.noChords {
		disabled := false
		cfg.Chords = &disabled
	}
	if flags.styling.style != "" {
		cfg.Style = flags.styling.style
	}
}

// resolveTimeout picks the PDF timeout: flag > config > default.
func resolveTimeout(flagTimeout string, cfg *config.Config) (time.Duration, error) {
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagTimeout)
		}
		return d, nil
	}
	d, err := cfg.PDFTimeout(defaultPDFTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, d)
	}
	return d, nil
}

// resolveCSS loads the stylesheet: a path with a .css extension or a
// separator reads from disk, anything else names an embedded style.
func resolveCSS(style string, noStyle bool) (string, error) {
	if noStyle {
		return "", nil
	}
	if style == "" {
		return assets.LoadStyle(assets.DefaultStyle)
	}
	if strings.HasSuffix(style, ".css") || strings.ContainsRune(style, os.PathSeparator) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		return string(content), nil
	}
	return assets.LoadStyle(style)
}

// readPreface reads the preface Markdown file, if configured. A relative
// path is resolved against the source directory.
func readPreface(path, sourceDir string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			candidate := filepath.Join(sourceDir, path)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadPreface, err)
	}
	return string(content), nil
}
