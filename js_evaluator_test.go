//go:build js_eval

package anchor

import (
	"testing"
	"time"
)

func TestJSRuleTimeout(t *testing.T) {
	evaluator := NewJSEvaluator(JSWithTimeout(20 * time.Millisecond))
	_, err := evaluator.Evaluate(RuleContext{Key: "chat", Value: String("opened")}, "(function(){ while (true) {} })()")
	if err == nil {
		t.Fatalf("expected interrupted rule")
	}

	result, err := evaluator.Evaluate(RuleContext{Key: "chat", Value: String("opened")}, "value === 'opened'")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}
}
