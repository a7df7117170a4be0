package anchor

// Codec encodes and decodes anchor fragments with a fixed set of options.
// A Codec is safe for concurrent use.
type Codec struct {
	cfg codecConfig
}

// New constructs a Codec.
func New(opts ...Option) *Codec {
	return &Codec{cfg: applyOptions(opts)}
}

// Delimiters returns the effective separator set.
func (c *Codec) Delimiters() Delimiters {
	return c.cfg.delimiters
}

// Schema returns the schema the next Encode call validates against, or nil.
func (c *Codec) Schema() *Schema {
	if c.cfg.schemaSet {
		return c.cfg.schema
	}
	if c.cfg.config != nil {
		return c.cfg.config.CurrentSchema()
	}
	return CurrentSchema()
}

func (c *Codec) logger() Logger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return noopLogger{}
}

// Encode serializes state with a Codec built from opts.
func Encode(state State, opts ...Option) (string, error) {
	return New(opts...).Encode(state)
}

// EncodeMap serializes the legacy flat map form. A nil input encodes as an
// empty map; anything else that is not a map[string]any fails with
// ErrNotMapping.
func EncodeMap(raw any, opts ...Option) (string, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	typed, ok := raw.(map[string]any)
	if !ok {
		return "", ErrNotMapping
	}
	state, err := FromMap(typed)
	if err != nil {
		return "", err
	}
	return New(opts...).Encode(state)
}

// Decode parses a fragment with a Codec built from opts.
func Decode(fragment string, opts ...Option) State {
	return New(opts...).Decode(fragment)
}

// DecodeURI parses the fragment of href with a Codec built from opts.
func DecodeURI(href string, opts ...Option) State {
	return New(opts...).DecodeURI(href)
}
