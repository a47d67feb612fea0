// Package seed reads candidate prospect lists for bulk import.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

// Format identifies a seed file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything other than
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a seed file. The file must hold a list of prospect objects.
func Load(path string) ([]prospect.NewProspect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	items, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// Parse decodes a list of prospects. Keys that are not prospect fields are
// ignored.
func Parse(data []byte, format Format) ([]prospect.NewProspect, error) {
	var items []prospect.NewProspect

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}

	if items == nil {
		items = []prospect.NewProspect{}
	}
	return items, nil
}
