package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML frame table.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return doc, nil
}

// MarshalYAML renders a document back to YAML.
func MarshalYAML(doc Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}
