package anchor

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// SchemaMapKey is the only settable configuration key.
const SchemaMapKey = "schema_map"

// Config holds the schema shared by every codec bound to it. The schema is
// swapped atomically so an encode never sees a partial update.
type Config struct {
	schema atomic.Pointer[Schema]
}

// NewConfig returns a Config with no schema.
func NewConfig() *Config {
	return &Config{}
}

var defaultConfig = NewConfig()

// DefaultConfig returns the process-wide config used by codecs built without
// WithConfig or WithSchema.
func DefaultConfig() *Config {
	return defaultConfig
}

// CurrentSchema returns the configured schema, or nil when none is set.
func (c *Config) CurrentSchema() *Schema {
	if c == nil {
		return nil
	}
	return c.schema.Load()
}

// SetSchema replaces the schema. Nil clears it.
func (c *Config) SetSchema(schema *Schema) {
	c.schema.Store(schema)
}

// Configure applies settings. Only SchemaMapKey is accepted; its value may be
// a *Schema, a SchemaMap shaped map[string]any, or nil. Any other key fails
// with a ConfigError and nothing is applied.
func (c *Config) Configure(settings map[string]any) error {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key != SchemaMapKey {
			return &ConfigError{Key: key}
		}
	}

	raw, ok := settings[SchemaMapKey]
	if !ok {
		return nil
	}
	schema, err := schemaFromSetting(raw)
	if err != nil {
		return err
	}
	c.SetSchema(schema)
	return nil
}

func schemaFromSetting(raw any) (*Schema, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case *Schema:
		return typed, nil
	case map[string]any:
		schema, err := SchemaFromMap(typed)
		if err != nil {
			return nil, err
		}
		if err := schema.Compile(); err != nil {
			return nil, err
		}
		return schema, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a schema map, got %T", ErrBadInput, SchemaMapKey, raw)
	}
}

// Configure applies settings to the default config.
func Configure(settings map[string]any) error {
	return defaultConfig.Configure(settings)
}

// SetSchema replaces the default config schema.
func SetSchema(schema *Schema) {
	defaultConfig.SetSchema(schema)
}

// CurrentSchema returns the default config schema.
func CurrentSchema() *Schema {
	return defaultConfig.CurrentSchema()
}
