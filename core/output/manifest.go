package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file a site conversion writes its manifest to.
const ManifestName = "manifest.yaml"

// Entry statuses.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Manifest records the outcome of a site conversion.
type Manifest struct {
	Root      string    `yaml:"root"`
	Mode      string    `yaml:"mode"`
	Generated time.Time `yaml:"generated"`
	Documents []Entry   `yaml:"documents"`
}

// Entry is one converted (or failed) document.
type Entry struct {
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
	Status string `yaml:"status"`
	Error  string `yaml:"error,omitempty"`
}

// Failed returns the number of failed documents.
func (m *Manifest) Failed() int {
	n := 0
	for _, e := range m.Documents {
		if e.Status == StatusFailed {
			n++
		}
	}
	return n
}

// WriteManifest writes m as YAML into the output directory.
func (w *Writer) WriteManifest(m *Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	path := filepath.Join(w.OutputDir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
