// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scholarship-workers/internal/models"
)

// LoadRegistry reads a seed file. The format follows the extension: .yaml
// and .yml are YAML, anything else is JSON. A bare list of listings is
// accepted as well as the wrapped form.
func LoadRegistry(path string) (*ListingRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// LoadListings is LoadRegistry without the envelope.
func LoadListings(path string) ([]models.ScholarshipListing, error) {
	reg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	return reg.Scholarships, nil
}

func decodeJSON(data []byte) (*ListingRegistry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var listings []models.ScholarshipListing
		if err := json.Unmarshal(trimmed, &listings); err != nil {
			return nil, fmt.Errorf("decode listings: %w", err)
		}
		return &ListingRegistry{Scholarships: listings}, nil
	}

	var reg ListingRegistry
	if err := json.Unmarshal(trimmed, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

func decodeYAML(data []byte) (*ListingRegistry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if len(node.Content) == 0 {
		return &ListingRegistry{}, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var listings []models.ScholarshipListing
		if err := node.Decode(&listings); err != nil {
			return nil, fmt.Errorf("decode listings: %w", err)
		}
		return &ListingRegistry{Scholarships: listings}, nil
	}

	var reg ListingRegistry
	if err := node.Decode(&reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}
