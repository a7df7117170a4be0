package anchor

import (
	"errors"
	"strings"
	"testing"
)

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []ExprEvaluatorOption{}
			if cache != nil {
				opts = append(opts, ExprWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, ExprWithFunctionRegistry(registry))
			}
			return NewExprEvaluator(opts...)
		},
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []CELEvaluatorOption{}
			if cache != nil {
				opts = append(opts, CELWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, CELWithFunctionRegistry(registry))
			}
			return NewCELEvaluator(opts...)
		},
	},
	{
		name: "js",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []JSEvaluatorOption{}
			if cache != nil {
				opts = append(opts, JSWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, JSWithFunctionRegistry(registry))
			}
			return NewJSEvaluator(opts...)
		},
	},
}

func digitsRegistry(t *testing.T) *FunctionRegistry {
	t.Helper()
	registry := NewFunctionRegistry()
	err := registry.Register("digits", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("digits expects one argument")
		}
		text, _ := args[0].(string)
		if text == "" {
			return false, nil
		}
		return strings.Trim(text, "0123456789") == "", nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return registry
}

func TestRuleExpressionsAcrossEngines(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			if factory.name == "js" && !jsEvaluatorAvailable() {
				t.Skip("js evaluator requires the js_eval build tag")
			}
			cache := NewMemoryProgramCache()
			evaluator := factory.new(cache, digitsRegistry(t))

			schema := NewSchema(
				WithRuleEvaluator(evaluator),
				Key("chat", Expr("value == 'opened' || value == 'closed'")),
				Key("size", Expr("kind == 'number' && number > 2.0")),
				Dependent("chat", map[string]Rule{
					"person": Expr("dependent && owner == 'chat' && call('digits', value)"),
				}),
			)
			if err := schema.Compile(); err != nil {
				t.Fatalf("compile: %v", err)
			}

			ok := State{
				"chat": {Value: String("opened"), Dependents: Dependents{"person": String("42")}},
				"size": {Value: Int(3)},
			}
			fragment, err := Encode(ok, WithSchema(schema))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if fragment != "chat=opened:person,42&size=3" {
				t.Fatalf("unexpected fragment %q", fragment)
			}
			if _, cached := cache.Get("kind == 'number' && number > 2.0"); !cached {
				t.Fatalf("expected compiled program in cache")
			}

			rejects := []struct {
				state State
				kind  RejectKind
			}{
				{State{"chat": {Value: String("maybe")}}, IndependentValue},
				{State{"size": {Value: String("3")}}, IndependentValue},
				{State{"size": {Value: Int(1)}}, IndependentValue},
				{State{"chat": {Value: String("opened"), Dependents: Dependents{"person": String("bob")}}}, DependentValue},
			}
			for _, tc := range rejects {
				_, err := Encode(tc.state, WithSchema(schema))
				var schemaErr *SchemaError
				if !errors.As(err, &schemaErr) || schemaErr.Kind != tc.kind {
					t.Fatalf("expected %s reject for %v, got %v", tc.kind, tc.state, err)
				}
			}
		})
	}
}

func TestRuleExpressionMustReturnBool(t *testing.T) {
	var events []LogEvent
	logger := LoggerFunc(func(event LogEvent) { events = append(events, event) })
	schema := NewSchema(Key("chat", Expr("value")))

	_, err := Encode(State{"chat": {Value: String("opened")}}, WithSchema(schema), WithLogger(logger))
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if evalErr.Engine != "expr" || evalErr.Key != "chat" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if errors.Is(err, ErrSchemaReject) {
		t.Fatalf("evaluation failures are not schema rejects")
	}

	var ruleEvents int
	for _, event := range events {
		if event.Op == OpRule && event.Key == "chat" && event.Err != nil {
			ruleEvents++
		}
	}
	if ruleEvents != 1 {
		t.Fatalf("expected one failed rule event, got %+v", events)
	}
}

func TestFunctionRegistryRegister(t *testing.T) {
	registry := NewFunctionRegistry()
	fn := func(args ...any) (any, error) { return true, nil }

	if err := registry.Register("Upper", fn); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("upper", fn); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	for _, reserved := range []string{"value", "Key", "call", "dependent"} {
		if err := registry.Register(reserved, fn); err == nil {
			t.Fatalf("expected %q to be reserved", reserved)
		}
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function error")
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "upper" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}

	clone := registry.Clone()
	if err := clone.Register("lower", fn); err != nil {
		t.Fatalf("register on clone: %v", err)
	}
	if len(registry.Names()) != 1 {
		t.Fatalf("clone must not write through")
	}
}

func TestRegistryFunctionsCallableByName(t *testing.T) {
	evaluator := NewExprEvaluator(ExprWithFunctionRegistry(digitsRegistry(t)))
	result, err := evaluator.Evaluate(RuleContext{Key: "id", Value: String("123")}, "digits(value)")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}

	compiled, err := evaluator.Compile("digits(value)")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result, err = compiled.Evaluate(RuleContext{Key: "id", Value: String("12a")})
	if err != nil {
		t.Fatalf("compiled evaluate: %v", err)
	}
	if result != false {
		t.Fatalf("expected false, got %v", result)
	}
}

func TestEvaluatorEngineName(t *testing.T) {
	if got := evaluatorEngineName(NewExprEvaluator()); got != "expr" {
		t.Fatalf("expected expr, got %q", got)
	}
	if got := evaluatorEngineName(NewCELEvaluator()); got != "cel" {
		t.Fatalf("expected cel, got %q", got)
	}
	if got := evaluatorEngineName(nil); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestSchemaReusesDefaultEvaluatorCache(t *testing.T) {
	const rule = "kind == 'number' && number > 1.0"
	schema := NewSchema(Key("size", Expr(rule)))
	if err := schema.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}

	first, err := schema.ruleEvaluator()
	if err != nil {
		t.Fatalf("rule evaluator: %v", err)
	}
	second, _ := schema.ruleEvaluator()
	if first != second {
		t.Fatalf("schema should keep a single evaluator")
	}

	evaluator, ok := first.(*exprEvaluator)
	if !ok || evaluator.cache == nil {
		t.Fatalf("expected cached expr evaluator, got %T", first)
	}
	compiled, cached := evaluator.cache.Get(rule)
	if !cached {
		t.Fatalf("Compile should leave the program in the cache")
	}

	for i := 0; i < 3; i++ {
		if _, err := Encode(State{"size": {Value: Int(2)}}, WithSchema(schema)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	again, _ := evaluator.cache.Get(rule)
	if again != compiled {
		t.Fatalf("encode should reuse the compiled program")
	}
}
