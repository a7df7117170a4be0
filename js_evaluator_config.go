package anchor

import "time"

// DefaultJSRuleTimeout bounds a single goja rule run.
const DefaultJSRuleTimeout = 50 * time.Millisecond

// JSEvaluatorOption configures the goja rule evaluator. Options are accepted
// in every build so callers need no build tags; they only take effect with
// js_eval.
type JSEvaluatorOption func(*jsRuleSettings)

type jsRuleSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsRuleSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry functions by name and through
// call(name, ...).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsRuleSettings) {
		if registry != nil {
			s.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts rules running longer than d. Zero or negative
// values disable the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(s *jsRuleSettings) {
		s.timeout = d
	}
}

func jsSettings(opts []JSEvaluatorOption) jsRuleSettings {
	s := jsRuleSettings{timeout: DefaultJSRuleTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
