// Package schemafile loads anchor schemas from JSON, YAML or TOML files
// holding the SchemaMap shape.
package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	anchor "github.com/goliatone/go-anchor"
	"gopkg.in/yaml.v3"
)

// Format names a schema file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("schemafile: unsupported extension for %q", path)
	}
}

// Load reads path and builds a compiled schema.
func Load(path string, opts ...anchor.SchemaOption) (*anchor.Schema, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %q: %w", path, err)
	}
	return Parse(raw, format, opts...)
}

// Parse decodes raw in format and builds a compiled schema.
func Parse(raw []byte, format Format, opts ...anchor.SchemaOption) (*anchor.Schema, error) {
	doc, err := decode(raw, format)
	if err != nil {
		return nil, err
	}
	schema, err := anchor.SchemaFromMap(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if err := schema.Compile(); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return schema, nil
}

func decode(raw []byte, format Format) (map[string]any, error) {
	doc := map[string]any{}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
			return nil, fmt.Errorf("schemafile: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(raw), &doc); err != nil {
			return nil, fmt.Errorf("schemafile: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("schemafile: unknown format %q", format)
	}
	return normalize(doc), nil
}

// normalize converts nested map[any]any (older YAML shapes) into
// map[string]any so SchemaFromMap sees one map type.
func normalize(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalize(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	default:
		return value
	}
}
