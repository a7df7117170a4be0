package anchor

import (
	"sort"
	"strings"
	"time"
)

// Encode serializes state into a fragment (without the leading "#!").
// Keys are emitted in sorted order. When a schema is in effect every key,
// value and dependent map must be authorized by it; the first violation is
// returned as a *SchemaError.
func (c *Codec) Encode(state State) (string, error) {
	start := time.Now()
	fragment, err := c.encode(state, c.Schema())
	c.logger().LogCodec(LogEvent{
		Op:       OpEncode,
		Fragment: fragment,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return "", err
	}
	return fragment, nil
}

func (c *Codec) encode(state State, schema *Schema) (string, error) {
	d := c.cfg.delimiters
	parts := make([]string, 0, len(state))
	for _, key := range state.Keys() {
		if key == "" || strings.HasPrefix(key, ReservedPrefix) {
			continue
		}
		part, err := c.encodeEntry(key, state[key], schema)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, d.Pair), nil
}

func (c *Codec) encodeEntry(key string, entry Entry, schema *Schema) (string, error) {
	d := c.cfg.delimiters
	value := entry.Value

	if schema != nil {
		rule, ok := schema.Rule(key)
		if !ok {
			return "", &SchemaError{Kind: IndependentKey, Key: key}
		}
		allowed, err := schema.allows(rule, RuleContext{Key: key, Value: value}, c.logger())
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", &SchemaError{Kind: IndependentValue, Key: key, Value: value.String()}
		}
	}

	var b strings.Builder
	switch value.Kind() {
	case KindBool:
		if value.IsTrue() {
			b.WriteString(encodeComponent(key))
		}
	default:
		b.WriteString(encodeComponent(key))
		b.WriteString(d.KeyValue)
		b.WriteString(encodeComponent(value.String()))
	}

	if entry.Dependents == nil {
		return b.String(), nil
	}
	deps, err := c.encodeDependents(key, entry.Dependents, schema)
	if err != nil {
		return "", err
	}
	if deps != "" {
		b.WriteString(d.Sub)
		b.WriteString(deps)
	}
	return b.String(), nil
}

func (c *Codec) encodeDependents(owner string, deps Dependents, schema *Schema) (string, error) {
	d := c.cfg.delimiters

	var depRule DependentRule
	if schema != nil {
		rule, ok := schema.Dependent(owner)
		if !ok {
			return "", &SchemaError{Kind: DependentKey, Key: ReservedPrefix + owner}
		}
		depRule = rule
	}

	keys := make([]string, 0, len(deps))
	for key := range deps {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := deps[key]
		if rule, ok := depRule.Rule(key); ok {
			ctx := RuleContext{Key: key, Value: value, Owner: owner, Dependent: true}
			allowed, err := schema.allows(rule, ctx, c.logger())
			if err != nil {
				return "", err
			}
			if !allowed {
				return "", &SchemaError{Kind: DependentValue, Key: key, Value: value.String()}
			}
		}

		switch value.Kind() {
		case KindBool:
			if value.IsTrue() {
				parts = append(parts, encodeComponent(key))
			}
		default:
			parts = append(parts, encodeComponent(key)+d.DepKeyValue+encodeComponent(value.String()))
		}
	}
	return strings.Join(parts, d.DepPair), nil
}
