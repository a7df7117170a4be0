package anchor

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-anchor/internal/hydrate"
)

// BindOption configures Bind.
type BindOption func(*bindConfig)

type bindConfig struct {
	strict bool
}

// BindStrict rejects state keys the target type has no field for.
func BindStrict() BindOption {
	return func(cfg *bindConfig) {
		cfg.strict = true
	}
}

// Bind hydrates T from state through its JSON field names. The payload is
// the legacy map form without "_s_" keys, so a dependent map binds to a
// field tagged `json:"_key"`. When T (or *T) has a Validate() error method
// it runs after decoding.
func Bind[T any](state State, opts ...BindOption) (T, error) {
	cfg := bindConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	decoderOpts := []hydrate.DecoderOption[T]{
		hydrate.WithPreHook[T](dropSourceKeys),
		hydrate.WithPostHook[T](func(value *T) error {
			return validateValue(*value)
		}),
	}
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	return hydrate.NewDecoder[T](decoderOpts...).Decode(state.Map())
}

func dropSourceKeys(payload map[string]any) (map[string]any, error) {
	for key := range payload {
		if strings.HasPrefix(key, SourcePrefix) {
			delete(payload, key)
		}
	}
	return payload, nil
}

func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	rv := reflect.ValueOf(&value).Elem()
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		if v, ok := rv.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	return nil
}
