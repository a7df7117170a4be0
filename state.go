package anchor

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// ReservedPrefix marks keys that are never encoded as independent entries.
	// The legacy map form stores dependent maps under ReservedPrefix+key.
	ReservedPrefix = "_"
	// SourcePrefix marks the legacy map key holding the full decoded string.
	SourcePrefix = "_s_"
)

// Dependents holds the dependent map attached to one independent key.
type Dependents map[string]Value

// Entry is one independent key of the anchor state.
type Entry struct {
	Value Value
	// Dependents is nil when the key has no dependent map. A non-nil empty map
	// is still validated against the schema on encode.
	Dependents Dependents
	// Source is the full decoded string the decoder split Value and
	// Dependents from. Only set for string values.
	Source    string
	HasSource bool
}

// State maps independent key names to their entries.
type State map[string]Entry

// Set stores value under key, keeping any dependent map already present.
func (s State) Set(key string, value Value) State {
	entry := s[key]
	entry.Value = value
	entry.Source = ""
	entry.HasSource = false
	s[key] = entry
	return s
}

// SetDependents attaches deps to key. The key is created with the zero
// value when missing.
func (s State) SetDependents(key string, deps Dependents) State {
	entry := s[key]
	entry.Dependents = deps.Clone()
	if entry.Dependents == nil {
		entry.Dependents = Dependents{}
	}
	s[key] = entry
	return s
}

// Get returns the value stored under key.
func (s State) Get(key string) (Value, bool) {
	entry, ok := s[key]
	if !ok {
		return Value{}, false
	}
	return entry.Value, true
}

// Keys returns the state keys sorted alphabetically.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	for key, entry := range s {
		entry.Dependents = entry.Dependents.Clone()
		out[key] = entry
	}
	return out
}

// WithDefaults returns a copy of s where keys missing from s are filled from
// defaults. Keys present in s win together with their dependent maps.
func (s State) WithDefaults(defaults State) State {
	out := defaults.Clone()
	if out == nil {
		out = State{}
	}
	for key, entry := range s {
		entry.Dependents = entry.Dependents.Clone()
		out[key] = entry
	}
	return out
}

// Equal compares values and dependent maps, ignoring Source metadata.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for key, entry := range s {
		otherEntry, ok := other[key]
		if !ok || !entry.Value.Equal(otherEntry.Value) {
			return false
		}
		if (entry.Dependents == nil) != (otherEntry.Dependents == nil) {
			return false
		}
		if !entry.Dependents.Equal(otherEntry.Dependents) {
			return false
		}
	}
	return true
}

// Clone returns a copy of d.
func (d Dependents) Clone() Dependents {
	if d == nil {
		return nil
	}
	out := make(Dependents, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

// Equal reports whether d and other hold the same entries.
func (d Dependents) Equal(other Dependents) bool {
	if len(d) != len(other) {
		return false
	}
	for key, value := range d {
		otherValue, ok := other[key]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}
	return true
}

// Map renders s in the legacy flat form: dependent maps under "_key" and
// decoded full strings under "_s_key".
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s))
	for key, entry := range s {
		out[key] = entry.Value.Interface()
		if entry.Dependents != nil {
			deps := make(map[string]any, len(entry.Dependents))
			for depKey, depValue := range entry.Dependents {
				deps[depKey] = depValue.Interface()
			}
			out[ReservedPrefix+key] = deps
		}
		if entry.HasSource {
			out[SourcePrefix+key] = entry.Source
		}
	}
	return out
}

// FromMap converts the legacy flat form into a State. Dependent maps are
// read from "_key" siblings; "_s_" keys and dependent maps without their
// owning key are ignored.
func FromMap(raw map[string]any) (State, error) {
	out := make(State, len(raw))
	for key, rawValue := range raw {
		if key == "" || strings.HasPrefix(key, ReservedPrefix) {
			continue
		}
		value, ok := ValueOf(rawValue)
		if !ok {
			return nil, fmt.Errorf("%w: key %q has type %T", ErrUnsupportedValue, key, rawValue)
		}
		entry := Entry{Value: value}
		if rawDeps, exists := raw[ReservedPrefix+key]; exists {
			deps, err := dependentsFromAny(key, rawDeps)
			if err != nil {
				return nil, err
			}
			entry.Dependents = deps
		}
		out[key] = entry
	}
	return out, nil
}

func dependentsFromAny(owner string, raw any) (Dependents, error) {
	if raw == nil {
		return nil, nil
	}
	typed, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: dependent map %q has type %T", ErrUnsupportedValue, ReservedPrefix+owner, raw)
	}
	deps := make(Dependents, len(typed))
	for key, rawValue := range typed {
		value, ok := ValueOf(rawValue)
		if !ok {
			return nil, fmt.Errorf("%w: dependent key %q of %q has type %T", ErrUnsupportedValue, key, owner, rawValue)
		}
		deps[key] = value
	}
	return deps, nil
}
