// Package output handles file naming and writing of converted documents.
// A single page fetched by URL gets a flat name derived from the URL
// (example_com_docs.md); a converted site mirrors the source tree so the
// rewritten relative links keep resolving.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteFile writes data to path, creating parent directories. A relative
// path is taken relative to the output directory.
func (w *Writer) WriteFile(path string, data []byte) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.OutputDir, path)
	}
	return path, write(path, data)
}

// WriteURL writes the output of a page fetched from rawURL under a flat
// name derived from the URL. ext is given without a leading dot.
func (w *Writer) WriteURL(rawURL string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, filenameFromURL(rawURL)+"."+strings.TrimPrefix(ext, "."))
	return path, write(path, data)
}

// WriteMirror writes the output of the source document at rel (relative to
// the site root, slash separated) to the same relative location with its
// extension replaced by ext.
// Example: guide/intro.html → <OutputDir>/guide/intro.md
func (w *Writer) WriteMirror(rel string, data []byte, ext string) (string, error) {
	path, err := w.MirrorPath(rel, ext)
	if err != nil {
		return "", err
	}
	return path, write(path, data)
}

// MirrorPath returns the path WriteMirror would write rel to.
func (w *Writer) MirrorPath(rel, ext string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("document path %q escapes the output directory", rel)
	}

	clean = strings.TrimSuffix(clean, filepath.Ext(clean)) + "." + strings.TrimPrefix(ext, ".")
	return filepath.Join(w.OutputDir, clean), nil
}

func write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/docs/intro.html → example_com_docs_intro
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	p := strings.Trim(parsed.Path, "/")
	p = strings.TrimSuffix(p, filepath.Ext(p))
	if p != "" {
		for _, seg := range strings.Split(p, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
