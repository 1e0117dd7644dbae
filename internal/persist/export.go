// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-console/pkg/types"
)

// Format is an export file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml, yml, or json, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q (want yaml or json)", s)
}

// FormatFromPath guesses the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Export writes articles to w.
func Export(w io.Writer, articles []types.Article, format Format) error {
	if articles == nil {
		articles = []types.Article{}
	}
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(articles)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Decode reads an exported collection.
func Decode(data []byte, format Format) ([]types.Article, error) {
	var articles []types.Article
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &articles); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &articles); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return articles, nil
}
