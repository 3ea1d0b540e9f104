// Package fileutil writes result sets and favorites to disk or a stream.
package fileutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name. An empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// SanitizeFilename cleans a filename by replacing problematic characters
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return strings.TrimSpace(name)
}

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Encode writes data to w in the given structured format.
func Encode(w io.Writer, data any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("format %q is not a structured encoding", format)
	}
	return nil
}

// WriteJSONFile writes data as indented JSON, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	return writeEncoded(data, filePath, FormatJSON, overwrite)
}

// WriteYAMLFile writes data as YAML, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteYAMLFile(data any, filePath string, overwrite bool) (bool, error) {
	return writeEncoded(data, filePath, FormatYAML, overwrite)
}

func writeEncoded(data any, filePath string, format Format, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("Export file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Encode(file, data, format); err != nil {
		_ = file.Close()
		return false, err
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to write export file: %w", err)
	}

	slog.Info("Wrote export file", "filename", filePath, "format", string(format))
	return true, nil
}
