package anchor

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator is returned when an Expr rule has no evaluator to run on.
var ErrNoEvaluator = errors.New("anchor: rule evaluator not configured")

// RuleContext carries the entry a rule expression is checked against.
type RuleContext struct {
	Key   string
	Value Value
	// Owner is the independent key for dependent entries.
	Owner     string
	Dependent bool
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// binding is the variable set every engine exposes to rule expressions.
func (ctx RuleContext) binding() map[string]any {
	number, _ := ctx.Value.Float()
	return map[string]any{
		"key":       ctx.Key,
		"value":     ctx.Value.String(),
		"kind":      ctx.Value.Kind().String(),
		"number":    number,
		"flag":      ctx.Value.IsTrue(),
		"owner":     ctx.Owner,
		"dependent": ctx.Dependent,
	}
}

func (ctx RuleContext) label() string {
	if ctx.Dependent {
		return ctx.Owner + "." + ctx.Key
	}
	return ctx.Key
}

// ruleEvaluator returns the schema evaluator. Only a zero Schema, built
// without NewSchema, lacks one.
func (s *Schema) ruleEvaluator() (Evaluator, error) {
	if s.evaluator != nil {
		return s.evaluator, nil
	}
	evaluator := NewExprEvaluator()
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

// allows checks value against rule. Unrestricted rules allow everything.
func (s *Schema) allows(rule Rule, ctx RuleContext, logger Logger) (bool, error) {
	if rule.values != nil {
		return rule.values[ctx.Value.String()], nil
	}
	if rule.expr == "" {
		return true, nil
	}

	evaluator, err := s.ruleEvaluator()
	if err != nil {
		return false, err
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, rule.expr)
	if evalErr == nil {
		if _, ok := result.(bool); !ok {
			evalErr = fmt.Errorf("rule returned %T, want bool", result)
		}
	}
	evalErr = wrapEvaluationError(engine, rule.expr, ctx.label(), evalErr)
	logger.LogCodec(LogEvent{
		Op:       OpRule,
		Key:      ctx.label(),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return false, evalErr
	}
	return result.(bool), nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*anchor.exprEvaluator":
		return "expr"
	case "*anchor.celEvaluator":
		return "cel"
	case "*anchor.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
