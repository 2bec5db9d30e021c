package source

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAML decodes a YAML mapping read from r, limited to DefaultMaxBodySize.
// An empty document yields an empty map.
func YAML(r io.Reader) (map[string]any, error) {
	return YAMLWithLimit(r, DefaultMaxBodySize)
}

// YAMLWithLimit decodes a YAML mapping of at most limit bytes.
func YAMLWithLimit(r io.Reader, limit int64) (map[string]any, error) {
	body, err := readLimited(r, limit)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseYAML, err)
	}
	return out, nil
}
