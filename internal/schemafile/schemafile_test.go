package schemafile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	anchor "github.com/goliatone/go-anchor"
)

const jsonSchema = `{
  "chat": {"opened": true, "closed": true},
  "_chat": {"person": "value matches '^[0-9]+$'"},
  "debug": true,
  "legacy": false
}`

const yamlSchema = `
chat:
  opened: true
  closed: true
_chat:
  person: "value matches '^[0-9]+$'"
debug: true
legacy: false
`

const tomlSchema = `
debug = true
legacy = false

[chat]
opened = true
closed = true

[_chat]
person = "value matches '^[0-9]+$'"
`

func TestParseFormats(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		format Format
	}{
		{"json", jsonSchema, FormatJSON},
		{"yaml", yamlSchema, FormatYAML},
		{"toml", tomlSchema, FormatTOML},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema, err := Parse([]byte(tc.raw), tc.format)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			keys := schema.Keys()
			if len(keys) != 2 || keys[0] != "chat" || keys[1] != "debug" {
				t.Fatalf("unexpected keys: %v", keys)
			}

			codec := anchor.New(anchor.WithSchema(schema))
			ok := anchor.State{"chat": {Value: anchor.String("opened"), Dependents: anchor.Dependents{"person": anchor.String("42")}}}
			if _, err := codec.Encode(ok); err != nil {
				t.Fatalf("expected authorized state, got %v", err)
			}
			bad := anchor.State{"chat": {Value: anchor.String("opened"), Dependents: anchor.Dependents{"person": anchor.String("bob")}}}
			if _, err := codec.Encode(bad); !errors.Is(err, anchor.ErrSchemaReject) {
				t.Fatalf("expected dependent rule reject, got %v", err)
			}
			if _, err := codec.Encode(anchor.State{"legacy": {Value: anchor.Flag()}}); !errors.Is(err, anchor.ErrSchemaReject) {
				t.Fatalf("expected false entry to reject, got %v", err)
			}
		})
	}
}

func TestLoadPicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anchor.yml")
	if err := os.WriteFile(path, []byte(yamlSchema), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "anchor.ini")); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestParseRejectsBrokenRules(t *testing.T) {
	if _, err := Parse([]byte(`{"chat": "value ==="}`), FormatJSON); err == nil {
		t.Fatalf("expected compile error for invalid rule")
	}
	if _, err := Parse([]byte(`{"chat": 3}`), FormatJSON); !errors.Is(err, anchor.ErrBadInput) {
		t.Fatalf("expected bad input for numeric entry, got %v", err)
	}
}
