package anchor

import (
	"fmt"
	"sort"
	"strings"
)

// Rule authorizes the values of one key.
type Rule struct {
	values map[string]bool
	expr   string
}

// AnyValue authorizes every value of a key.
func AnyValue() Rule {
	return Rule{}
}

// OneOf restricts a key to the listed stringified values.
func OneOf(values ...string) Rule {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return Rule{values: set}
}

// Expr authorizes a value when expression evaluates to true. The expression
// sees key, value, kind, number, flag, owner and dependent.
func Expr(expression string) Rule {
	return Rule{expr: expression}
}

// Restricted reports whether the rule constrains values at all.
func (r Rule) Restricted() bool {
	return r.values != nil || r.expr != ""
}

// Values returns the allowed values sorted, or nil for unrestricted rules.
func (r Rule) Values() []string {
	if r.values == nil {
		return nil
	}
	out := make([]string, 0, len(r.values))
	for value := range r.values {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Expression returns the rule expression, if any.
func (r Rule) Expression() string {
	return r.expr
}

// DependentRule authorizes the dependent map of one independent key. Keys
// missing from the rule set are allowed; listed keys have their values
// checked.
type DependentRule struct {
	keys map[string]Rule
}

// Rule returns the value rule for a dependent key.
func (d DependentRule) Rule(key string) (Rule, bool) {
	rule, ok := d.keys[key]
	return rule, ok
}

// Schema is an allow-list of keys and values checked on encode. A Schema is
// immutable once built.
type Schema struct {
	keys       map[string]Rule
	dependents map[string]DependentRule
	evaluator  Evaluator
}

// SchemaOption configures a Schema under construction.
type SchemaOption func(*Schema)

// Key authorizes an independent key.
func Key(name string, rule Rule) SchemaOption {
	return func(s *Schema) {
		s.keys[name] = rule
	}
}

// Dependent authorizes the dependent map of owner. A nil rules map allows
// any dependent entry.
func Dependent(owner string, rules map[string]Rule) SchemaOption {
	return func(s *Schema) {
		var keys map[string]Rule
		if rules != nil {
			keys = make(map[string]Rule, len(rules))
			for key, rule := range rules {
				keys[key] = rule
			}
		}
		s.dependents[owner] = DependentRule{keys: keys}
	}
}

// WithRuleEvaluator selects the engine for Expr rules. The default is an
// expr-lang evaluator with its own program cache, shared by Compile and every
// encode against the schema.
func WithRuleEvaluator(evaluator Evaluator) SchemaOption {
	return func(s *Schema) {
		s.evaluator = evaluator
	}
}

// NewSchema builds a Schema.
func NewSchema(opts ...SchemaOption) *Schema {
	s := &Schema{
		keys:       map[string]Rule{},
		dependents: map[string]DependentRule{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.evaluator == nil {
		s.evaluator = NewExprEvaluator(ExprWithProgramCache(NewMemoryProgramCache()))
	}
	return s
}

// Rule returns the rule for an independent key.
func (s *Schema) Rule(key string) (Rule, bool) {
	if s == nil {
		return Rule{}, false
	}
	rule, ok := s.keys[key]
	return rule, ok
}

// Dependent returns the dependent rule for owner.
func (s *Schema) Dependent(owner string) (DependentRule, bool) {
	if s == nil {
		return DependentRule{}, false
	}
	rule, ok := s.dependents[owner]
	return rule, ok
}

// Keys returns the authorized independent keys sorted.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Compile checks that every Expr rule compiles with the schema evaluator.
// Evaluators with a program cache keep the compiled programs for encode.
func (s *Schema) Compile() error {
	if s == nil {
		return nil
	}
	for _, key := range s.Keys() {
		if err := s.compileRule(key, s.keys[key]); err != nil {
			return err
		}
	}
	for owner, dep := range s.dependents {
		for key, rule := range dep.keys {
			if err := s.compileRule(owner+"."+key, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) compileRule(key string, rule Rule) error {
	if rule.expr == "" {
		return nil
	}
	evaluator, err := s.ruleEvaluator()
	if err != nil {
		return err
	}
	if _, err := evaluator.Compile(rule.expr); err != nil {
		return wrapEvaluationError(evaluatorEngineName(evaluator), rule.expr, key, err)
	}
	return nil
}

// Map renders the schema in the SchemaMap shape accepted by SchemaFromMap.
func (s *Schema) Map() map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	for key, rule := range s.keys {
		out[key] = rule.mapValue()
	}
	for owner, dep := range s.dependents {
		if dep.keys == nil {
			out[ReservedPrefix+owner] = true
			continue
		}
		keys := make(map[string]any, len(dep.keys))
		for key, rule := range dep.keys {
			keys[key] = rule.mapValue()
		}
		out[ReservedPrefix+owner] = keys
	}
	return out
}

func (r Rule) mapValue() any {
	switch {
	case r.expr != "":
		return r.expr
	case r.values != nil:
		values := make(map[string]any, len(r.values))
		for value := range r.values {
			values[value] = true
		}
		return values
	default:
		return true
	}
}

// SchemaFromMap reads the SchemaMap shape: each key maps to true (any value),
// a map of allowed values to true, or a rule expression string. Keys with
// the reserved prefix describe dependent maps: true, or a map of dependent
// keys to the same rule shapes. False entries authorize nothing.
func SchemaFromMap(raw map[string]any, opts ...SchemaOption) (*Schema, error) {
	schemaOpts := make([]SchemaOption, 0, len(raw)+len(opts))
	for key, value := range raw {
		if owner, ok := strings.CutPrefix(key, ReservedPrefix); ok && owner != "" {
			opt, err := dependentFromAny(owner, value)
			if err != nil {
				return nil, err
			}
			if opt != nil {
				schemaOpts = append(schemaOpts, opt)
			}
			continue
		}
		rule, ok, err := ruleFromAny(key, value)
		if err != nil {
			return nil, err
		}
		if ok {
			schemaOpts = append(schemaOpts, Key(key, rule))
		}
	}
	schemaOpts = append(schemaOpts, opts...)
	return NewSchema(schemaOpts...), nil
}

func dependentFromAny(owner string, raw any) (SchemaOption, error) {
	switch typed := raw.(type) {
	case bool:
		if !typed {
			return nil, nil
		}
		return Dependent(owner, nil), nil
	case map[string]any:
		rules := make(map[string]Rule, len(typed))
		for key, value := range typed {
			rule, ok, err := ruleFromAny(owner+"."+key, value)
			if err != nil {
				return nil, err
			}
			if ok {
				rules[key] = rule
			}
		}
		return Dependent(owner, rules), nil
	default:
		return nil, fmt.Errorf("%w: schema entry %q has type %T", ErrBadInput, ReservedPrefix+owner, raw)
	}
}

func ruleFromAny(key string, raw any) (Rule, bool, error) {
	switch typed := raw.(type) {
	case bool:
		return AnyValue(), typed, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return Rule{}, false, fmt.Errorf("%w: schema entry %q has an empty rule expression", ErrBadInput, key)
		}
		return Expr(typed), true, nil
	case map[string]any:
		values := make([]string, 0, len(typed))
		for value, allowed := range typed {
			flag, ok := allowed.(bool)
			if !ok {
				return Rule{}, false, fmt.Errorf("%w: schema value %q of %q must be a boolean", ErrBadInput, value, key)
			}
			if flag {
				values = append(values, value)
			}
		}
		return OneOf(values...), true, nil
	default:
		return Rule{}, false, fmt.Errorf("%w: schema entry %q has type %T", ErrBadInput, key, raw)
	}
}
