// Package exchange reads and writes week files in JSON, YAML or TOML.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ihildy/weekhours/internal/week"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is the on-disk shape of an exported week.
type Document struct {
	WeekStart  string    `json:"week_start" yaml:"week_start" toml:"week_start"`
	TotalHours float64   `json:"total_hours" yaml:"total_hours" toml:"total_hours"`
	Days       week.Week `json:"days" yaml:"days" toml:"days"`
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format %q (allowed: json, yaml, toml)", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format from %q; pass --format", path)
	}
	return ParseFormat(ext)
}

func NewDocument(weekStart string, w week.Week) Document {
	return Document{WeekStart: weekStart, TotalHours: week.TotalHours(w), Days: w.Clone()}
}

func Export(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Import decodes a week file and checks its shape. The total in the file is
// ignored and recomputed.
func Import(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported format %q", format)
	}

	for i := range doc.Days {
		if doc.Days[i].Sessions == nil {
			doc.Days[i].Sessions = []week.Session{}
		}
	}
	if err := week.Validate(doc.Days); err != nil {
		return Document{}, fmt.Errorf("invalid week file: %w", err)
	}
	doc.TotalHours = week.TotalHours(doc.Days)
	return doc, nil
}
