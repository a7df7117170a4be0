//go:build !js_eval

package anchor

// NewJSEvaluator returns nil unless the module is built with the js_eval tag.
// Schemas given a nil evaluator fall back to expr.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = jsSettings(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
