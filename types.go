package anchor

import "github.com/goliatone/go-anchor/pkg/activity"

// Delimiters configures the separators of the fragment wire format. Empty
// fields fall back to DefaultDelimiters.
type Delimiters struct {
	Pair        string
	KeyValue    string
	Sub         string
	DepPair     string
	DepKeyValue string
}

// DefaultDelimiters returns the standard separator set: & = : | ,
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Pair:        "&",
		KeyValue:    "=",
		Sub:         ":",
		DepPair:     "|",
		DepKeyValue: ",",
	}
}

func (d Delimiters) withDefaults() Delimiters {
	defaults := DefaultDelimiters()
	if d.Pair == "" {
		d.Pair = defaults.Pair
	}
	if d.KeyValue == "" {
		d.KeyValue = defaults.KeyValue
	}
	if d.Sub == "" {
		d.Sub = defaults.Sub
	}
	if d.DepPair == "" {
		d.DepPair = defaults.DepPair
	}
	if d.DepKeyValue == "" {
		d.DepKeyValue = defaults.DepKeyValue
	}
	return d
}

// Option configures a Codec.
type Option func(*codecConfig)

type codecConfig struct {
	delimiters    Delimiters
	config        *Config
	schema        *Schema
	schemaSet     bool
	logger        Logger
	activityHooks activity.Hooks
	actor         activity.Actor
}

func applyOptions(opts []Option) codecConfig {
	cfg := codecConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.delimiters = cfg.delimiters.withDefaults()
	return cfg
}

// WithDelimiters overrides the separator set. Empty fields keep defaults.
func WithDelimiters(d Delimiters) Option {
	return func(cfg *codecConfig) {
		cfg.delimiters = d
	}
}

// WithSchema pins the schema used on encode, bypassing any Config. A nil
// schema disables validation.
func WithSchema(schema *Schema) Option {
	return func(cfg *codecConfig) {
		cfg.schema = schema
		cfg.schemaSet = true
	}
}

// WithConfig reads the schema from config on every encode call. Without it
// the process-wide default config is used.
func WithConfig(config *Config) Option {
	return func(cfg *codecConfig) {
		cfg.config = config
	}
}
