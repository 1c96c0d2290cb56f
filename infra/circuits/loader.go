// Package circuits reads circuit schedules from YAML or JSON documents.
package circuits

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/phasebal/core/model"
)

// Format identifies the encoding of a circuit document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is the on-disk layout of a circuit schedule.
type Document struct {
	Circuits []model.CircuitLoad `json:"circuits" yaml:"circuits"`
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported circuit file format: %q", ext)
	}
}

// LoadFile reads the circuit schedule stored at path.
func LoadFile(path string) ([]model.CircuitLoad, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	circuits, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return circuits, nil
}

// Decode reads a circuit schedule from r. Unknown fields are rejected so
// that misspelled keys do not silently drop a phase lock.
func Decode(r io.Reader, format Format) ([]model.CircuitLoad, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported circuit file format: %q", format)
	}
	return doc.Circuits, nil
}
